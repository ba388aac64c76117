package judge

import (
	"context"
	"math/rand"
	"strings"
	"sync"
)

// fallbackPrompts is the built-in challenge pool used when no backing judge
// is reachable. Every entry is 15 words or fewer.
var fallbackPrompts = []string{
	// Technology & computing
	"Design a new programming language that uses natural human gestures instead of typing",
	"Create a computer interface for people who have no hands or mobility",
	"Design a smart city infrastructure that respects privacy while enhancing safety",
	"Invent a new social media platform that promotes genuine human connection",
	"Design an AI assistant for mental health that respects ethical boundaries",

	// Science & innovation
	"Design a device that could capture and store carbon dioxide from the atmosphere",
	"Create a renewable energy solution for areas with extreme weather conditions",
	"Invent a material that could replace plastic in all common applications",
	"Design a sustainable water purification system for remote communities",
	"Create a solution for managing e-waste in urban environments",

	// AI & future tech
	"Design an AI system that could help predict and prevent natural disasters",
	"Create a fair and transparent algorithm for college admissions",
	"Invent a new type of quantum computing application for everyday use",
	"Design a robot that could help restore damaged ecosystems",
	"Create an AI that can translate animal communication to human language",
}

// genericOpponentSolutions are canned 120-150 word solutions used for the
// opponent when judging runs offline.
var genericOpponentSolutions = []string{
	"My solution uses a distributed network of quantum-encrypted nodes that can process information in parallel while maintaining data integrity. The system incorporates adaptive learning algorithms that improve efficiency as usage patterns emerge. I've designed a modular architecture that can be deployed incrementally, with each component being self-contained yet interconnected through standardized APIs. Energy requirements are managed through a combination of renewable sources and advanced power management techniques. The user interface adapts to individual preferences while maintaining a consistent experience across different platforms and abilities.",
	"I propose a bio-inspired system that mimics natural processes to achieve sustainable outcomes. The core technology uses engineered microorganisms that can be programmed for specific tasks without disrupting existing ecosystems. The implementation is scalable from individual buildings to entire cities, with each installation being self-sufficient after initial setup. Materials used are biodegradable or easily recyclable, ensuring minimal environmental impact throughout the lifecycle. The solution integrates with existing infrastructure to minimize disruption while providing immediate benefits to communities.",
	"My approach combines neural networks with symbolic reasoning to create a hybrid system that addresses the limitations of each individual approach. The architecture utilizes federated learning to protect privacy while still benefiting from distributed data processing. Implementation happens in phases, with each phase building on lessons from previous deployments. The system is designed to be explainable, with clear reasoning paths that users can understand and verify. This transparency builds trust while maintaining performance at levels comparable to black-box alternatives.",
	"I've designed a platform that connects people based on complementary skills rather than similar interests, creating diverse networks that solve problems more effectively. The system uses reputation mechanisms that reward helpful behaviors rather than popularity. Implementation begins with small community pilots that generate data for subsequent refinement. Privacy controls are granular but intuitive, allowing users to meaningfully control their data. The business model is cooperative rather than extractive, ensuring sustainability through alignment with user interests.",
}

const (
	// Solutions under this trimmed length lose the offline evaluation outright.
	minSeriousSolutionLen = 20

	// Probability that the user wins a fallback evaluation. Deliberately
	// biased as an engagement mechanic.
	offlineUserWinRate = 0.8
)

// Offline is the synthetic judge. It never fails and never talks to the
// network; results are randomized but the designated winner's per-category
// scores are always drawn from a band strictly above the loser's.
type Offline struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewOffline(seed int64) *Offline {
	return &Offline{rng: rand.New(rand.NewSource(seed))}
}

var _ Provider = (*Offline)(nil)

func (o *Offline) GeneratePrompt(ctx context.Context) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return fallbackPrompts[o.rng.Intn(len(fallbackPrompts))], nil
}

func (o *Offline) GenerateOpponentSolution(ctx context.Context, prompt string) (string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return genericOpponentSolutions[o.rng.Intn(len(genericOpponentSolutions))], nil
}

func (o *Offline) Evaluate(ctx context.Context, prompt, userSolution, opponentSolution string) (*Evaluation, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	// A token solution loses outright; otherwise the user usually wins.
	userWins := false
	if len(strings.TrimSpace(userSolution)) >= minSeriousSolutionLen {
		userWins = o.rng.Float64() < offlineUserWinRate
	}

	return o.syntheticEvaluation(userWins), nil
}

// Winner and loser score bands per category. The bands are disjoint so the
// winner beats the loser in every category, which also keeps the totals
// strictly ordered.
var (
	winnerBands = [3]struct{ base, spread int }{
		{75, 20}, // originality
		{72, 20}, // logic
		{72, 20}, // expression
	}
	loserBands = [3]struct{ base, spread int }{
		{50, 20},
		{52, 18},
		{48, 20},
	}
)

func (o *Offline) syntheticEvaluation(userWins bool) *Evaluation {
	winner := o.sampleSide(winnerBands)
	loser := o.sampleSide(loserBands)

	var user, ai SideScore
	if userWins {
		user, ai = winner, loser
	} else {
		user, ai = loser, winner
	}

	user.OriginalityFeedback, user.LogicFeedback, user.ExpressionFeedback = userFeedback(userWins)
	ai.OriginalityFeedback, ai.LogicFeedback, ai.ExpressionFeedback = opponentFeedback(!userWins)

	eval := &Evaluation{
		UserScore: user,
		AIScore:   ai,
		Winner:    WinnerAI,
	}
	if userWins {
		eval.Winner = WinnerUser
		eval.JudgeFeedback = "Your solution stands out with its originality and practical approach. You've demonstrated creative thinking while maintaining feasibility and clear communication."
	} else {
		eval.JudgeFeedback = "The AI solution shows a strong balance of creativity, logical structure and clear expression. Keep developing your own unique approach for next time!"
	}
	return eval
}

func (o *Offline) sampleSide(bands [3]struct{ base, spread int }) SideScore {
	s := SideScore{
		Originality: bands[0].base + o.rng.Intn(bands[0].spread),
		Logic:       bands[1].base + o.rng.Intn(bands[1].spread),
		Expression:  bands[2].base + o.rng.Intn(bands[2].spread),
	}
	s.Total = s.Originality + s.Logic + s.Expression
	return s
}

func userFeedback(won bool) (originality, logic, expression string) {
	if won {
		return "Your solution demonstrates exceptional creativity and innovative thinking that addresses the challenge in original ways.",
			"Your solution is well-structured with a clear practical approach and thoughtful implementation details.",
			"Your idea is communicated with clarity and engaging language that makes the concept easy to understand."
	}
	return "Your solution contains interesting elements but follows somewhat predictable patterns.",
		"Your approach has logical merit but could benefit from more detailed consideration of practical challenges.",
		"Your expression is adequate but could be more refined for better clarity and engagement."
}

func opponentFeedback(won bool) (originality, logic, expression string) {
	if won {
		return "The AI solution demonstrates creative thinking and novel approaches to the challenge.",
			"The AI approach is well-structured with practical implementation details and sound reasoning.",
			"The AI solution is clearly communicated with engaging language and effective structure."
	}
	return "The AI solution contains some creative elements but lacks the originality of your approach.",
		"The AI solution has a reasonable logical structure but doesn't match the practicality of your solution.",
		"The AI expression is competent but lacks the clarity and engagement of your solution."
}
