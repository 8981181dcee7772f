package convert

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"peasydeal-link-converter/config"
	"peasydeal-link-converter/internal/app/amqp/conversions"
	"peasydeal-link-converter/internal/convert"
	"peasydeal-link-converter/internal/pkg/render"
	"peasydeal-link-converter/internal/router"
)

const (
	RoutePath       = "/v1/convert"
	LegacyRoutePath = "/.netlify/functions/convert"

	// publishTimeout bounds the background conversion event publish.
	publishTimeout = 5 * time.Second
)

var (
	errInvalidJSON  = errors.New("Invalid JSON body")
	errNoText       = errors.New("No text provided")
	errBodyTooLarge = errors.New("Request body too large")
	errInternal     = errors.New("Internal Error")
)

type converter interface {
	ProcessDetailed(ctx context.Context, text string) (convert.Result, error)
}

type eventPublisher interface {
	Publish(ctx context.Context, res convert.Result)
}

type Handler struct {
	svc          converter
	events       eventPublisher
	maxBodyBytes int64
	logger       *zap.SugaredLogger
}

type NewHandlerParams struct {
	fx.In

	Cfg       *config.Config
	Service   *convert.Service
	Publisher *conversions.Publisher `optional:"true"`
	Logger    *zap.SugaredLogger
}

func NewHandler(p NewHandlerParams) *Handler {
	h := &Handler{
		svc:          p.Service,
		maxBodyBytes: p.Cfg.MaxBodyBytes,
		logger:       p.Logger,
	}
	if p.Publisher.Enabled() {
		h.events = p.Publisher
	}
	return h
}

func (h *Handler) RegisterRoute(r *chi.Mux) {
	r.HandleFunc(RoutePath, h.Handle)
	r.HandleFunc(LegacyRoutePath, h.Handle)
}

type convertRequest struct {
	Text string `json:"text"`
}

type convertResponse struct {
	ResultText string `json:"resultText"`
}

func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		render.ChiText(w, r, http.StatusMethodNotAllowed, "Method Not Allowed")
		return
	}

	defer func() {
		if rec := recover(); rec != nil {
			h.logger.Errorw("convert_panic", "request_id", middleware.GetReqID(r.Context()), "panic", rec)
			render.ChiErr(w, r, http.StatusInternalServerError, errInternal)
		}
	}()

	body := r.Body
	if h.maxBodyBytes > 0 {
		body = http.MaxBytesReader(w, r.Body, h.maxBodyBytes)
	}

	var req convertRequest
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			render.ChiErr(w, r, http.StatusRequestEntityTooLarge, errBodyTooLarge)
			return
		}
		render.ChiErr(w, r, http.StatusBadRequest, errInvalidJSON)
		return
	}
	if req.Text == "" {
		render.ChiErr(w, r, http.StatusBadRequest, errNoText)
		return
	}

	res, err := h.svc.ProcessDetailed(r.Context(), req.Text)
	if err != nil {
		h.logger.Errorw("convert_failed", "request_id", middleware.GetReqID(r.Context()), "err", err)
		render.ChiErr(w, r, http.StatusInternalServerError, errInternal)
		return
	}

	render.ChiJSON(w, r, http.StatusOK, convertResponse{ResultText: res.Text})

	if h.events != nil {
		go func(ctx context.Context) {
			ctx, cancel := context.WithTimeout(ctx, publishTimeout)
			defer cancel()
			h.events.Publish(ctx, res)
		}(context.WithoutCancel(r.Context()))
	}
}

var _ router.Handler = (*Handler)(nil)
