// internal/app/features/polls/voting.go
package polls

import (
	"context"
	"net/http"

	"github.com/gatherhub/gatherhub/internal/app/features/shared"
	"github.com/gatherhub/gatherhub/internal/app/policy/capability"
	pollstore "github.com/gatherhub/gatherhub/internal/app/store/polls"
	"github.com/gatherhub/gatherhub/internal/app/system/apperr"
	"github.com/gatherhub/gatherhub/internal/app/system/auth"
	"github.com/gatherhub/gatherhub/internal/app/system/httpjson"
	"github.com/gatherhub/gatherhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type ballot struct {
	QuestionID string `json:"question_id"`
	OptionID   string `json:"option_id"`
}

type voteRequest struct {
	Votes []ballot `json:"votes"`
}

// HandleVote casts the caller's choices, one per question. The batch is
// validated in full before anything is recorded.
func (h *Handler) HandleVote(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.MustUserID(w, r)
	if !ok {
		return
	}
	id, err := shared.ObjectIDParam(r, "id")
	if err != nil {
		httpjson.Error(w, err)
		return
	}

	var req voteRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, err)
		return
	}

	ballots := make([]pollstore.Ballot, 0, len(req.Votes))
	for _, v := range req.Votes {
		qid, err := primitive.ObjectIDFromHex(v.QuestionID)
		if err != nil {
			httpjson.Error(w, apperr.New(apperr.InvalidArgument, "invalid question_id"))
			return
		}
		oid, err := primitive.ObjectIDFromHex(v.OptionID)
		if err != nil {
			httpjson.Error(w, apperr.New(apperr.InvalidArgument, "invalid option_id"))
			return
		}
		ballots = append(ballots, pollstore.Ballot{QuestionID: qid, OptionID: oid})
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	// Voting is participant-only; organizing the event is not enough.
	d, err := h.Resolver.ResolvePoll(ctx, uid, id, capability.ActionVote)
	if err != nil {
		httpjson.Error(w, err)
		return
	}

	if err := h.Polls.CastVotes(ctx, *d.Poll, uid, ballots); err != nil {
		httpjson.Error(w, err)
		return
	}

	h.Log.Info("polls: votes cast",
		zap.String("poll_id", id.Hex()),
		zap.String("user_id", uid.Hex()),
		zap.Int("questions", len(ballots)))
	httpjson.Respond(w, http.StatusOK, "votes recorded", nil)
}

// HandleResults returns the per-question tallies; the creator or an
// event organizer.
func (h *Handler) HandleResults(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.MustUserID(w, r)
	if !ok {
		return
	}
	id, err := shared.ObjectIDParam(r, "id")
	if err != nil {
		httpjson.Error(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	d, err := h.Resolver.ResolvePoll(ctx, uid, id, capability.ActionElevated)
	if err != nil {
		httpjson.Error(w, err)
		return
	}

	results, err := h.Polls.Results(ctx, *d.Poll)
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, "ok", results)
}
