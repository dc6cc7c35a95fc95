package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"flash-gen/internal/services"
	"flash-gen/internal/session"
	"flash-gen/internal/source"
)

// generateRequest is the input of one generation, from a form or a JSON body.
type generateRequest struct {
	Text     string `json:"text"`
	NumCards int    `json:"numCards" validate:"min=1,max=20"`
	Language string `json:"language" validate:"max=64"`

	upload *source.Upload
}

// requestError is a client error carrying its HTTP status.
type requestError struct {
	status int
	msg    string
}

func (e *requestError) Error() string { return e.msg }

func badRequest(format string, args ...any) *requestError {
	return &requestError{status: http.StatusBadRequest, msg: fmt.Sprintf(format, args...)}
}

func (s *Server) decodeGenerateRequest(w http.ResponseWriter, r *http.Request) (*generateRequest, error) {
	req := &generateRequest{
		NumCards: s.opts.DefaultCards,
		Language: s.opts.DefaultLanguage,
	}

	// Room for the text fields on top of the document itself.
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes+1<<20)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		if err := json.NewDecoder(r.Body).Decode(req); err != nil {
			if tooLarge(err) {
				return nil, &requestError{status: http.StatusRequestEntityTooLarge, msg: "request too large"}
			}
			return nil, badRequest("invalid json payload")
		}
	case "multipart/form-data":
		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			if tooLarge(err) {
				return nil, &requestError{status: http.StatusRequestEntityTooLarge, msg: "uploaded file too large"}
			}
			return nil, badRequest("invalid multipart form: %v", err)
		}
		if err := readFormFields(r, req); err != nil {
			return nil, err
		}
		upload, err := readUpload(r)
		if err != nil {
			return nil, err
		}
		req.upload = upload
	default:
		if err := r.ParseForm(); err != nil {
			return nil, badRequest("invalid form: %v", err)
		}
		if err := readFormFields(r, req); err != nil {
			return nil, err
		}
	}

	if strings.TrimSpace(req.Language) == "" {
		req.Language = s.opts.DefaultLanguage
	}
	if err := s.validate.Struct(req); err != nil {
		return nil, badRequest("numCards must be between %d and %d", services.MinCards, services.MaxCards)
	}
	return req, nil
}

func readFormFields(r *http.Request, req *generateRequest) error {
	req.Text = r.FormValue("text")
	if raw := strings.TrimSpace(r.FormValue("numCards")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return badRequest("numCards must be a number")
		}
		req.NumCards = n
	}
	if lang := strings.TrimSpace(r.FormValue("language")); lang != "" {
		req.Language = lang
	}
	return nil
}

func readUpload(r *http.Request) (*source.Upload, error) {
	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil
	}
	if err != nil {
		return nil, badRequest("read uploaded file: %v", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, badRequest("read uploaded file: %v", err)
	}
	return &source.Upload{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func tooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

// runGenerate performs a generation for sess. A non-empty warning means the
// session was left unchanged; a non-nil error comes with its HTTP status.
func (s *Server) runGenerate(ctx context.Context, sess *session.Session, req *generateRequest) (string, int, error) {
	flashcards, err := s.generator.GenerateFromSource(ctx, req.upload, req.Text, req.NumCards, req.Language, nil)
	switch {
	case errors.Is(err, services.ErrNoSourceText):
		return services.WarningNoText, http.StatusOK, nil
	case errors.Is(err, services.ErrExtraction):
		return "", http.StatusUnprocessableEntity, err
	case errors.Is(err, services.ErrCardCount):
		return "", http.StatusBadRequest, err
	case err != nil:
		s.log.Error("generate flashcards", zap.Error(err))
		return "", http.StatusBadGateway, err
	}

	if !sess.Replace(flashcards) {
		return services.WarningUnstructured, http.StatusOK, nil
	}
	return "", http.StatusOK, nil
}
