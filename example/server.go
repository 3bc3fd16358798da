package main

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Gurux/gxstream-go"
	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog"
)

const maxWriteBody = 4096

type status struct {
	Name          string `json:"name"`
	Type          string `json:"type"`
	State         string `json:"state"`
	LastLine      string `json:"last_line"`
	Pending       string `json:"pending"`
	BytesSent     uint64 `json:"bytes_sent"`
	BytesReceived uint64 `json:"bytes_received"`
	Staged        bool   `json:"staged"`
}

// controlServer exposes the media over HTTP. Every request is executed on
// the driver goroutine.
type controlServer struct {
	srv    *http.Server
	driver *gxstream.Driver
	log    zerolog.Logger
}

func newControlServer(addr string, driver *gxstream.Driver, log zerolog.Logger) *controlServer {
	s := &controlServer{
		srv:    &http.Server{Addr: addr},
		driver: driver,
		log:    log.With().Str("component", "http").Logger(),
	}
	handler := httprouter.New()
	handler.GET("/status", s.status)
	handler.POST("/write", s.write)
	handler.POST("/cycle", s.do(func(m *gxstream.GXStream) error { return m.Cycle() }))
	handler.POST("/flush", s.do(func(m *gxstream.GXStream) error { return m.Flush() }))
	s.srv.Handler = handler
	return s
}

func (s *controlServer) status(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var st status
	err := s.driver.Do(r.Context(), func(m *gxstream.GXStream) error {
		st = status{
			Name:          m.GetName(),
			Type:          m.GetMediaType(),
			State:         m.State().String(),
			LastLine:      m.LastLine(),
			Pending:       m.Pending(),
			BytesSent:     m.GetBytesSent(),
			BytesReceived: m.GetBytesReceived(),
			Staged:        m.SettingsStaged(),
		}
		return nil
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(st); err != nil {
		s.log.Warn().Err(err).Msg("failed to write status")
	}
}

func (s *controlServer) write(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWriteBody))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	line := strings.TrimRight(string(body), "\r\n")
	s.do(func(m *gxstream.GXStream) error { return m.WriteLine(line) })(w, r, nil)
}

func (s *controlServer) do(fn func(m *gxstream.GXStream) error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		if err := s.driver.Do(r.Context(), fn); err != nil {
			s.log.Warn().Err(err).Str("path", r.URL.Path).Msg("request failed")
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// Run serves until ctx is done.
func (s *controlServer) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.srv.Shutdown(shutdownCtx)
	}()
	s.log.Info().Str("addr", s.srv.Addr).Msg("listening")
	err := s.srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}
