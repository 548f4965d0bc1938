package core

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"strings"
)

// multipartMemory is the part of the form kept in memory while parsing.
const multipartMemory = 1 << 20

type avatarResponse struct {
	AvatarURL string `json:"avatarUrl"`
}

// AvatarHandler uploads the multipart file field "avatar" to the avatar
// store and saves its URL. The local copy is always removed.
// Endpoint: PATCH /api/users/avatars
// Authenticated: Yes
// Allowed Mimetype: multipart/form-data
func (a *App) AvatarHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		writeJsonError(w, errorJwtInvalidToken)
		return
	}

	store := a.AvatarStore()
	if store == nil {
		a.Logger().Error("avatar upload requested but no avatar store is configured")
		writeJsonError(w, errorServiceUnavailable)
		return
	}

	cfg := a.Config()
	r.Body = http.MaxBytesReader(w, r.Body, cfg.Avatar.MaxUploadSize)

	// A request that is not multipart at all has no file either.
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeJsonError(w, errorFileTooLarge)
			return
		}
		writeJsonError(w, errorNoFile)
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	file, header, err := r.FormFile("avatar")
	if err != nil {
		writeJsonError(w, errorNoFile)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		writeJsonError(w, errorInvalidContentType)
		return
	}

	tmp, err := os.CreateTemp(cfg.Avatar.TempDir, "avatar-*")
	if err != nil {
		a.Logger().Error("failed to create avatar temp file", "error", err)
		writeJsonError(w, errorInternal)
		return
	}
	defer os.Remove(tmp.Name())

	_, copyErr := io.Copy(tmp, file)
	closeErr := tmp.Close()
	if err := errors.Join(copyErr, closeErr); err != nil {
		a.Logger().Error("failed to write avatar temp file", "error", err)
		writeJsonError(w, errorInternal)
		return
	}

	ctx := r.Context()
	if timeout := cfg.Avatar.UploadTimeout.Duration; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	avatarURL, err := store.Upload(ctx, tmp.Name(), contentType)
	a.Metrics().RecordAvatarUpload(err)
	if err != nil {
		a.Logger().Error("failed to upload avatar", "user_id", user.ID, "error", err)
		a.alarm(r.Context(), "avatar", "avatar upload failed", err)
		writeJsonError(w, errorServiceUnavailable)
		return
	}

	if err := a.DbAuth().UpdateAvatar(user.ID, avatarURL); err != nil {
		a.writeUpdateError(w, user.ID, err)
		return
	}

	writeJson(w, http.StatusOK, avatarResponse{AvatarURL: avatarURL})
}
