package coachvault

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/futurepoint/coachvault/internal"
	"github.com/futurepoint/coachvault/store"
)

// UploadNote validates the request, derives the canonical storage path,
// probes for an existing object to pick up its version token, and submits
// a create-or-update. Absence at the probe is not an error; it means
// "create". A stale version token yields [ErrConflict]. Requires
// [RoleAdmin].
func (e *Engine) UploadNote(ctx context.Context, sess *Session, req UploadRequest) (*UploadResult, error) {
	if e == nil || e.store == nil {
		return nil, ErrEngineNotReady
	}

	caller := sessionUsername(sess)
	if err := e.guard(sess, RoleAdmin); err != nil {
		e.emitAudit(ctx, auditEventNoteUploadFailed, false, caller, sessionID(sess), err, nil)
		return nil, err
	}

	// Every rule runs; callers need the full violation list at once.
	var v violations
	if !internal.ValidClass(req.Class) {
		v.addf("class must be one of 10, 11, 12 (got %q)", req.Class)
	}
	if strings.TrimSpace(req.Stream) == "" {
		v.add("stream is required")
	} else if !e.allowedStream(req.Stream) {
		v.addf("stream %q is not allowed", req.Stream)
	}
	if strings.TrimSpace(req.Subject) == "" {
		v.add("subject is required")
	}
	if strings.TrimSpace(req.Filename) == "" {
		v.add("filename is required")
	} else if !strings.HasSuffix(strings.ToLower(req.Filename), ".pdf") {
		v.add("file must be a PDF")
	}
	if len(req.Material) == 0 {
		v.add("material is required")
	} else if int64(len(req.Material)) > e.config.Upload.MaxMaterialSize {
		v.addf("material exceeds the %d byte limit", e.config.Upload.MaxMaterialSize)
	}
	if err := v.err(); err != nil {
		e.metricInc(MetricValidationRejected)
		e.emitAudit(ctx, auditEventNoteUploadFailed, false, caller, sess.SessionID, err, func() map[string]string {
			return map[string]string{"filename": req.Filename}
		})
		return nil, err
	}

	storagePath, err := internal.DerivePath(req.Class, req.Stream, req.Subject, req.Filename)
	if err != nil {
		e.metricInc(MetricValidationRejected)
		verr := newValidationError(err.Error())
		e.emitAudit(ctx, auditEventNoteUploadFailed, false, caller, sess.SessionID, verr, nil)
		return nil, verr
	}

	// Probe for an existing object: its version token turns the write into
	// a CAS update instead of a blind create.
	var expectedVersion string
	existing, err := e.store.Get(ctx, storagePath, req.Credential)
	switch {
	case err == nil:
		expectedVersion = existing.Version
	case errors.Is(err, store.ErrNotFound):
		// create
	default:
		e.metricInc(MetricNoteMutationFailure)
		e.emitAudit(ctx, auditEventNoteUploadFailed, false, caller, sess.SessionID, ErrUnavailable, func() map[string]string {
			return map[string]string{"path": storagePath, "reason": "probe_failed"}
		})
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	message := req.Message
	if message == "" {
		message = fmt.Sprintf("Upload %s by %s", path.Base(storagePath), caller)
	}

	result, err := e.store.Put(ctx, storagePath, store.PutRequest{
		Content:         req.Material,
		Message:         message,
		ExpectedVersion: expectedVersion,
	}, req.Credential)
	if err != nil {
		if errors.Is(err, store.ErrConflict) {
			e.metricInc(MetricCASConflict)
			e.emitAudit(ctx, auditEventNoteUploadFailed, false, caller, sess.SessionID, ErrConflict, func() map[string]string {
				return map[string]string{"path": storagePath}
			})
			return nil, ErrConflict
		}
		e.metricInc(MetricNoteMutationFailure)
		e.emitAudit(ctx, auditEventNoteUploadFailed, false, caller, sess.SessionID, ErrUnavailable, func() map[string]string {
			return map[string]string{"path": storagePath}
		})
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	e.metricInc(MetricNoteUploaded)
	e.emitAudit(ctx, auditEventNoteUploaded, true, caller, sess.SessionID, nil, func() map[string]string {
		return map[string]string{"path": storagePath}
	})

	return &UploadResult{
		Path:        storagePath,
		Version:     result.Object.Version,
		DownloadURL: result.Object.DownloadURL,
		HTMLURL:     result.Object.HTMLURL,
		Commit:      result.Commit,
	}, nil
}

// DeleteNote removes a material object. The caller supplies the version
// token obtained from a prior listing; it is not re-derived here. A stale
// token yields [ErrConflict], an absent object [ErrNotFound]. Requires
// [RoleAdmin].
func (e *Engine) DeleteNote(ctx context.Context, sess *Session, storagePath, versionToken, credential string) (store.Commit, error) {
	if e == nil || e.store == nil {
		return store.Commit{}, ErrEngineNotReady
	}

	caller := sessionUsername(sess)
	if err := e.guard(sess, RoleAdmin); err != nil {
		e.emitAudit(ctx, auditEventNoteDeleteFailed, false, caller, sessionID(sess), err, nil)
		return store.Commit{}, err
	}

	var v violations
	if storagePath == "" {
		v.add("storage path is required")
	} else if !strings.HasPrefix(storagePath, internal.NotesRoot+"/") {
		v.addf("storage path must be under %s/", internal.NotesRoot)
	}
	if versionToken == "" {
		v.add("version token is required")
	}
	if err := v.err(); err != nil {
		e.metricInc(MetricValidationRejected)
		e.emitAudit(ctx, auditEventNoteDeleteFailed, false, caller, sess.SessionID, err, func() map[string]string {
			return map[string]string{"path": storagePath}
		})
		return store.Commit{}, err
	}

	message := fmt.Sprintf("Delete note: %s", path.Base(storagePath))

	commit, err := e.store.Delete(ctx, storagePath, store.DeleteRequest{
		Message:         message,
		ExpectedVersion: versionToken,
	}, credential)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrConflict):
			e.metricInc(MetricCASConflict)
			err = ErrConflict
		case errors.Is(err, store.ErrNotFound):
			e.metricInc(MetricNoteMutationFailure)
			err = ErrNotFound
		default:
			e.metricInc(MetricNoteMutationFailure)
			err = fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		e.emitAudit(ctx, auditEventNoteDeleteFailed, false, caller, sess.SessionID, err, func() map[string]string {
			return map[string]string{"path": storagePath}
		})
		return store.Commit{}, err
	}

	e.metricInc(MetricNoteDeleted)
	e.emitAudit(ctx, auditEventNoteDeleted, true, caller, sess.SessionID, nil, func() map[string]string {
		return map[string]string{"path": storagePath}
	})

	return commit, nil
}

func (e *Engine) allowedStream(stream string) bool {
	lowered := strings.ToLower(stream)
	for _, allowed := range e.config.Upload.AllowedStreams {
		if lowered == allowed {
			return true
		}
	}
	return false
}
