// internal/app/features/polls/crud.go
package polls

import (
	"context"
	"net/http"
	"time"

	"github.com/gatherhub/gatherhub/internal/app/features/shared"
	"github.com/gatherhub/gatherhub/internal/app/policy/capability"
	pollstore "github.com/gatherhub/gatherhub/internal/app/store/polls"
	"github.com/gatherhub/gatherhub/internal/app/system/apperr"
	"github.com/gatherhub/gatherhub/internal/app/system/auth"
	"github.com/gatherhub/gatherhub/internal/app/system/htmlsanitize"
	"github.com/gatherhub/gatherhub/internal/app/system/httpjson"
	"github.com/gatherhub/gatherhub/internal/app/system/paging"
	"github.com/gatherhub/gatherhub/internal/app/system/timeouts"
	"github.com/gatherhub/gatherhub/internal/domain/models"
	"go.uber.org/zap"
)

type createQuestion struct {
	QuestionText string   `json:"question_text"`
	Options      []string `json:"options"`
}

type createRequest struct {
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	Questions   []createQuestion `json:"questions"`
	EndDate     *time.Time       `json:"endDate,omitempty"`
}

// HandleCreate creates a poll under the event in the URL; any
// participant or organizer of the event may.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.MustUserID(w, r)
	if !ok {
		return
	}
	eventID, err := shared.ObjectIDParam(r, "eventID")
	if err != nil {
		httpjson.Error(w, err)
		return
	}

	var req createRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	d, err := h.Resolver.ResolveEvent(ctx, uid, eventID, capability.ActionView)
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	if d.Role != capability.RoleParticipant && d.Role != capability.RoleOrganizer {
		httpjson.Error(w, apperr.New(apperr.Forbidden, "only the event's participants and organizers can create polls"))
		return
	}

	questions := make([]models.PollQuestion, 0, len(req.Questions))
	for _, q := range req.Questions {
		options := make([]models.PollOption, 0, len(q.Options))
		for _, text := range q.Options {
			options = append(options, models.PollOption{Text: htmlsanitize.Plain(text)})
		}
		questions = append(questions, models.PollQuestion{
			QuestionText: htmlsanitize.Plain(q.QuestionText),
			Options:      options,
		})
	}

	p, err := h.Polls.Create(ctx, models.Poll{
		Title:       htmlsanitize.Plain(req.Title),
		Description: htmlsanitize.Sanitize(req.Description),
		EventID:     eventID,
		Questions:   questions,
		EndDate:     req.EndDate,
	}, uid)
	if err != nil {
		httpjson.Error(w, err)
		return
	}

	h.Log.Info("polls: created", zap.String("poll_id", p.ID.Hex()), zap.String("event_id", eventID.Hex()))
	httpjson.Respond(w, http.StatusCreated, "poll created", p)
}

// HandleListByEvent pages an event's polls; participants and
// organizers.
func (h *Handler) HandleListByEvent(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.MustUserID(w, r)
	if !ok {
		return
	}
	eventID, err := shared.ObjectIDParam(r, "eventID")
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	page := paging.Parse(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := h.Resolver.ResolveEvent(ctx, uid, eventID, capability.ActionView); err != nil {
		httpjson.Error(w, err)
		return
	}

	polls, total, err := h.Polls.ListByEvent(ctx, eventID, page.Skip(), page.Limit64())
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	httpjson.RespondPage(w, "ok", polls, page.Meta(total))
}

// HandleGet returns one poll.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.MustUserID(w, r)
	if !ok {
		return
	}
	id, err := shared.ObjectIDParam(r, "id")
	if err != nil {
		httpjson.Error(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	d, err := h.Resolver.ResolvePoll(ctx, uid, id, capability.ActionView)
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, "ok", d.Poll)
}

type updateRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	IsActive    *bool      `json:"isActive,omitempty"`
	EndDate     *time.Time `json:"endDate,omitempty"`
}

// HandleUpdate edits a poll; creator only.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.MustUserID(w, r)
	if !ok {
		return
	}
	id, err := shared.ObjectIDParam(r, "id")
	if err != nil {
		httpjson.Error(w, err)
		return
	}

	var req updateRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.Error(w, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := h.Resolver.ResolvePoll(ctx, uid, id, capability.ActionManage); err != nil {
		httpjson.Error(w, err)
		return
	}

	if req.Title != nil {
		cleaned := htmlsanitize.Plain(*req.Title)
		req.Title = &cleaned
	}
	if req.Description != nil {
		cleaned := htmlsanitize.Sanitize(*req.Description)
		req.Description = &cleaned
	}

	p, err := h.Polls.Update(ctx, id, pollstore.Patch{
		Title:       req.Title,
		Description: req.Description,
		IsActive:    req.IsActive,
		EndDate:     req.EndDate,
	})
	if err != nil {
		httpjson.Error(w, err)
		return
	}
	httpjson.Respond(w, http.StatusOK, "poll updated", p)
}

// HandleDelete removes a poll and its votes; the creator or an event
// organizer.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
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

	if _, err := h.Resolver.ResolvePoll(ctx, uid, id, capability.ActionElevated); err != nil {
		httpjson.Error(w, err)
		return
	}
	if err := h.Polls.Delete(ctx, id); err != nil {
		httpjson.Error(w, err)
		return
	}

	h.Log.Info("polls: deleted", zap.String("poll_id", id.Hex()), zap.String("user_id", uid.Hex()))
	httpjson.Respond(w, http.StatusOK, "poll deleted", nil)
}
