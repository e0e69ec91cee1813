package localnode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/mesh-intelligence/tableland/pkg/types"
)

// APIPrefix is the path the read API is served under.
const APIPrefix = "/api/v1"

type receiptResponse struct {
	TableID         string   `json:"table_id,omitempty"`
	TableIDs        []string `json:"table_ids,omitempty"`
	TransactionHash string   `json:"transaction_hash"`
	BlockNumber     int64    `json:"block_number"`
	ChainID         int64    `json:"chain_id"`
	Error           string   `json:"error,omitempty"`
	ErrorEventIdx   *int     `json:"error_event_idx,omitempty"`
}

type tableResponse struct {
	Name        string `json:"name"`
	ExternalURL string `json:"external_url"`
	Schema      struct {
		Columns []Column `json:"columns"`
	} `json:"schema"`
}

type versionResponse struct {
	Version       int    `json:"version"`
	GitCommit     string `json:"git_commit"`
	GitBranch     string `json:"git_branch"`
	BinaryVersion string `json:"binary_version"`
}

// Handler returns the read API routes.
func (n *Node) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(n.logRequests)

	r.Route(APIPrefix, func(r chi.Router) {
		r.Get("/health", n.handleHealth)
		r.Get("/version", n.handleVersion)
		r.Get("/receipt/{chainId}/{txHash}", n.handleReceipt)
		r.Get("/query", n.handleQuery)
		r.Get("/tables/{chainId}/{tableId}", n.handleTable)
	})
	return r
}

// ListenAndServe serves the read API on addr until ctx is cancelled.
func (n *Node) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           n.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	n.logger.Info("Local read API listening", "addr", addr, "prefix", APIPrefix)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (n *Node) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n.logger.Debug("Read API request", "method", r.Method, "path", r.URL.Path,
			"request_id", r.Header.Get("X-Request-Id"))
		next.ServeHTTP(w, r)
	})
}

func (n *Node) handleHealth(w http.ResponseWriter, r *http.Request) {
	n.mu.RLock()
	attached := n.attached
	n.mu.RUnlock()
	if !attached {
		writeError(w, http.StatusServiceUnavailable, ErrDetached.Error())
		return
	}
	w.WriteHeader(http.StatusOK)
}

func (n *Node) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, versionResponse{BinaryVersion: n.version, GitBranch: "local"})
}

func (n *Node) handleReceipt(w http.ResponseWriter, r *http.Request) {
	chainID, err := strconv.ParseInt(chi.URLParam(r, "chainId"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid chain id")
		return
	}

	rec, err := n.Receipt(r.Context(), chainID, chi.URLParam(r, "txHash"))
	if errors.Is(err, types.ErrReceiptNotFound) {
		writeError(w, http.StatusNotFound, "Not Found")
		return
	}
	if err != nil {
		n.writeFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, receiptResponse{
		TableID:         rec.TableID,
		TableIDs:        rec.TableIDs,
		TransactionHash: rec.TransactionHash,
		BlockNumber:     rec.BlockNumber,
		ChainID:         rec.ChainID,
		Error:           rec.Error,
		ErrorEventIdx:   rec.ErrorEventIdx,
	})
}

func (n *Node) handleQuery(w http.ResponseWriter, r *http.Request) {
	statement := r.URL.Query().Get("statement")
	if statement == "" {
		writeError(w, http.StatusBadRequest, "statement is required")
		return
	}
	if f := r.URL.Query().Get("format"); f != "" && f != "objects" {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unsupported format %q", f))
		return
	}

	rows, err := n.Query(r.Context(), statement)
	if err != nil {
		if errors.Is(err, ErrDetached) {
			n.writeFailure(w, err)
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

func (n *Node) handleTable(w http.ResponseWriter, r *http.Request) {
	chainID, err := strconv.ParseInt(chi.URLParam(r, "chainId"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid chain id")
		return
	}
	tableID := chi.URLParam(r, "tableId")

	t, err := n.Table(r.Context(), chainID, tableID)
	if errors.Is(err, ErrTableNotFound) {
		writeError(w, http.StatusNotFound, "Not Found")
		return
	}
	if err != nil {
		n.writeFailure(w, err)
		return
	}

	var resp tableResponse
	resp.Name = t.Name
	resp.ExternalURL = fmt.Sprintf("http://%s%s/tables/%d/%s", r.Host, APIPrefix, chainID, tableID)
	resp.Schema.Columns = t.Columns
	writeJSON(w, http.StatusOK, resp)
}

func (n *Node) writeFailure(w http.ResponseWriter, err error) {
	if errors.Is(err, ErrDetached) {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	n.logger.Error("Read API request failed", "error", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
