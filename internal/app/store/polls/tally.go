// internal/app/store/polls/tally.go
package pollstore

import (
	"math"

	"github.com/gatherhub/gatherhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// OptionResult is the per-option tally for one question.
type OptionResult struct {
	OptionID   primitive.ObjectID `json:"option_id"`
	Text       string             `json:"text"`
	VoteCount  int                `json:"vote_count"`
	Percentage int                `json:"percentage"`
}

// QuestionResult is the tally for one question. TotalVotes is the sum
// of the option counts, so a user counts once per question.
type QuestionResult struct {
	QuestionID   primitive.ObjectID `json:"question_id"`
	QuestionText string             `json:"question_text"`
	TotalVotes   int                `json:"total_votes"`
	Options      []OptionResult     `json:"options"`
}

// Tally computes per-question results from the recorded votes.
// Percentages round half up; with zero votes every option reports 0.
// Options appear in the poll's declared order.
func Tally(poll models.Poll, votes []models.PollVote) []QuestionResult {
	counts := make(map[primitive.ObjectID]map[primitive.ObjectID]int)
	for _, v := range votes {
		byOption, ok := counts[v.QuestionID]
		if !ok {
			byOption = make(map[primitive.ObjectID]int)
			counts[v.QuestionID] = byOption
		}
		byOption[v.OptionID]++
	}

	results := make([]QuestionResult, 0, len(poll.Questions))
	for _, q := range poll.Questions {
		total := 0
		for _, n := range counts[q.ID] {
			total += n
		}
		opts := make([]OptionResult, 0, len(q.Options))
		for _, o := range q.Options {
			n := counts[q.ID][o.ID]
			pct := 0
			if total > 0 {
				pct = int(math.Round(float64(n) / float64(total) * 100))
			}
			opts = append(opts, OptionResult{
				OptionID:   o.ID,
				Text:       o.Text,
				VoteCount:  n,
				Percentage: pct,
			})
		}
		results = append(results, QuestionResult{
			QuestionID:   q.ID,
			QuestionText: q.QuestionText,
			TotalVotes:   total,
			Options:      opts,
		})
	}
	return results
}
