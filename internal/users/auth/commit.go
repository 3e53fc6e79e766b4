// Copyright (c) 2026 Priotama. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"log/slog"

	"github.com/taibuivan/priotama/internal/platform/apperr"
	"github.com/taibuivan/priotama/internal/platform/ctxutil"
	"github.com/taibuivan/priotama/internal/platform/storage"
	"github.com/taibuivan/priotama/pkg/uuid"
)

// # Identity Commit

// commitState is threaded through the steps of one commit.
type commitState struct {
	pending  PendingRegistration
	asset    storage.Asset
	uploaded bool
	user     *User
}

// commitStep is one named, ordered unit of the identity commit.
type commitStep struct {
	name string
	run  func(context context.Context, state *commitState) error
}

// commitSteps lists the saga in execution order. discard_session stays last.
func (service *Service) commitSteps() []commitStep {
	return []commitStep{
		{name: "recheck_duplicates", run: service.recheckDuplicates},
		{name: "claim_session", run: service.claimSession},
		{name: "upload_asset", run: service.uploadAsset},
		{name: "persist_user", run: service.persistUser},
		{name: "discard_session", run: service.discardSession},
	}
}

// commit turns a VERIFIED registration into a durable member.
func (service *Service) commit(context context.Context, pending PendingRegistration) (*User, error) {
	logger := ctxutil.GetLogger(context)
	state := &commitState{pending: pending}

	for _, step := range service.commitSteps() {
		if err := step.run(context, state); err != nil {
			logger.Warn("commit_step_failed",
				slog.String("step", step.name),
				slog.String("session_id", pending.ID),
				slog.Any("error", err),
			)
			return nil, err
		}
	}

	logger.Info("registration_committed",
		slog.String("session_id", pending.ID),
		slog.String("user_id", state.user.ID),
	)

	return state.user, nil
}

// recheckDuplicates repeats the guard; a member may have committed the same
// identity since staging.
func (service *Service) recheckDuplicates(context context.Context, state *commitState) error {
	collision, err := service.guard.Check(context, state.pending.Email, state.pending.Phone, "")
	if err != nil {
		return upstream(err, "auth_commit_guard_failed")
	}
	if !collision.None() {
		service.dropRegistration(context, state.pending)
		return collision.Err()
	}
	return nil
}

// claimSession re-reads the session. Losing the race to the sweep is NotFound.
func (service *Service) claimSession(context context.Context, state *commitState) error {
	entry, err := service.stores.Registrations.Get(context, state.pending.ID)
	if err != nil {
		if isNotFound(err) {
			return apperr.NotFound(resourceRegistration)
		}
		return upstream(err, "auth_commit_session_get_failed")
	}

	if entry.Expired(service.now()) {
		service.dropRegistration(context, entry.Value)
		return apperr.Expired(resourceRegistration)
	}
	if entry.Value.Status != StateVerified {
		return apperr.Rejected(msgInvalidCode)
	}

	state.pending = entry.Value
	return nil
}

func (service *Service) uploadAsset(context context.Context, state *commitState) error {
	asset, err := service.assets.Upload(context, state.pending.Picture.Data, state.pending.Picture.ContentType)
	if err != nil {
		return upstream(err, "auth_commit_upload_failed")
	}

	state.asset = asset
	state.uploaded = true
	return nil
}

// persistUser writes the member. The unique constraints are the final arbiter:
// a violation means another commit won, so the stale session is dropped.
func (service *Service) persistUser(context context.Context, state *commitState) error {
	pending := state.pending
	user := &User{
		ID:             uuid.New(),
		Name:           pending.Name,
		Email:          pending.Email,
		Phone:          pending.Phone,
		Gender:         pending.Gender,
		Age:            pending.Age,
		Country:        pending.Country,
		State:          pending.State,
		Profession:     pending.Profession,
		Hobby:          pending.Hobby,
		InstaID:        pending.InstaID,
		ProfilePicture: state.asset,
		PasswordHash:   pending.PasswordHash,
		IsVerified:     true,
		CreatedAt:      service.now().UTC(),
	}

	if err := service.userRepository.Create(context, user); err != nil {
		service.releaseAsset(context, state)

		if apperr.HasCode(err, apperr.CodeConflict) {
			service.dropRegistration(context, pending)
			return apperr.Conflict("User already exists", apperr.As(err).Details...)
		}
		return upstream(err, "auth_commit_persist_failed")
	}

	state.user = user
	return nil
}

// discardSession removes the session and its index entry. The member already
// exists, so failures are logged and the entries left to expire.
func (service *Service) discardSession(context context.Context, state *commitState) error {
	service.dropRegistration(context, state.pending)
	return nil
}

// releaseAsset compensates upload_asset on a failed write. Best effort.
func (service *Service) releaseAsset(context context.Context, state *commitState) {
	if !state.uploaded {
		return
	}

	if err := service.assets.Delete(context, state.asset.Key); err != nil {
		ctxutil.GetLogger(context).Warn("commit_asset_release_failed",
			slog.String("session_id", state.pending.ID),
			slog.String("asset_key", state.asset.Key),
			slog.Any("error", err),
		)
	}
}
