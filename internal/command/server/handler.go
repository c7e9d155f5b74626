package server

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	json "github.com/goccy/go-json"

	"github.com/lwmacct/251207-go-pkg-jsongen/internal/command/inspect"
	"github.com/lwmacct/251207-go-pkg-jsongen/internal/config"
	"github.com/lwmacct/251207-go-pkg-jsongen/internal/version"
	"github.com/lwmacct/251207-go-pkg-jsongen/pkg/jsongen"
)

// ErrorResponse 错误响应体。模板错误时携带错误类型与位置。
type ErrorResponse struct {
	Error  string `json:"error"`
	Kind   string `json:"kind,omitempty"`
	Name   string `json:"name,omitempty"`
	Offset *int   `json:"offset,omitempty"`
	Index  *int   `json:"index,omitempty"`
}

type handler struct {
	cfg *config.Config
}

// NewHandler 返回服务端路由。
//
//   - GET /health: 健康检查
//   - POST /expand: 请求体为模板，响应为文档数组
//   - POST /inspect: 请求体为模板，响应为变量表摘要
func NewHandler(cfg *config.Config) http.Handler {
	h := &handler{cfg: cfg}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", h.health)
	mux.HandleFunc("POST /expand", h.expand)
	mux.HandleFunc("POST /inspect", h.inspect)

	return mux
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": version.GetVersion()})
}

func (h *handler) expand(w http.ResponseWriter, r *http.Request) {
	tpl, ok := h.parse(w, r)
	if !ok {
		return
	}

	start := time.Now()
	docs, err := tpl.GenerateRaw(jsongen.WithWorkers(h.cfg.Expand.Workers))
	if err != nil {
		writeError(w, err)
		return
	}
	slog.Debug("Expanded template", "documents", len(docs), "elapsed", time.Since(start))

	writeJSON(w, http.StatusOK, docs)
}

func (h *handler) inspect(w http.ResponseWriter, r *http.Request) {
	tpl, ok := h.parse(w, r)
	if !ok {
		return
	}

	writeJSON(w, http.StatusOK, inspect.Summarize(tpl))
}

// parse 读取请求体并解析模板，失败时已写出响应。
func (h *handler) parse(w http.ResponseWriter, r *http.Request) (*jsongen.Template, bool) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.cfg.Server.MaxBody))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeJSON(w, http.StatusRequestEntityTooLarge, ErrorResponse{Error: err.Error()})
			return nil, false
		}
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})

		return nil, false
	}

	tpl, err := jsongen.Parse(string(body))
	if err != nil {
		writeError(w, err)
		return nil, false
	}

	return tpl, true
}

// writeError 将模板错误写为 422，其余错误写为 500。
func writeError(w http.ResponseWriter, err error) {
	var e *jsongen.Error
	if !errors.As(err, &e) {
		slog.Error("Request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})

		return
	}

	resp := ErrorResponse{Error: err.Error(), Kind: e.Kind.String(), Name: e.Name}
	if e.Pos >= 0 {
		resp.Offset = &e.Pos
	}
	if e.Index >= 0 {
		resp.Index = &e.Index
	}
	slog.Debug("Template rejected", "kind", resp.Kind, "error", err)

	writeJSON(w, http.StatusUnprocessableEntity, resp)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		slog.Error("Encode response failed", "error", err)
		http.Error(w, `{"error":"encode response"}`, http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(data, '\n'))
}
