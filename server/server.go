// Package server exposes the track analyzer over HTTP. Uploads are
// accepted asynchronously: the client posts a file, gets a job ID back,
// and polls until the analysis bundle is ready. Finished results are kept
// for a retention window and then expired.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/mr-spaghetti-code/three-music-rollercoaster/analyzer"
	"github.com/mr-spaghetti-code/three-music-rollercoaster/energy"
	"github.com/mr-spaghetti-code/three-music-rollercoaster/logging"
)

// Config holds the HTTP server settings
type Config struct {
	Port          int           `json:"port"`
	Workers       int           `json:"workers"`
	QueueSize     int           `json:"queue_size"`
	JobTTL        time.Duration `json:"job_ttl"`
	SweepInterval time.Duration `json:"sweep_interval"`
	MaxUploadMB   int64         `json:"max_upload_mb"`
	TempDir       string        `json:"temp_dir"`
}

// DefaultConfig returns production defaults
func DefaultConfig() *Config {
	return &Config{
		Port:          8080,
		Workers:       2,
		QueueSize:     16,
		JobTTL:        30 * time.Minute,
		SweepInterval: time.Minute,
		MaxUploadMB:   64,
		TempDir:       os.TempDir(),
	}
}

// Server ties the gin router, the job store and the worker pool together
type Server struct {
	cfg    *Config
	store  *Store
	pool   *Pool
	engine *gin.Engine
	logger logging.Logger
}

// NewServer creates a server that analyzes uploads with the given
// pipeline config; nil configs select defaults
func NewServer(cfg *Config, pcfg *energy.PipelineConfig) *Server {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	an := analyzer.New(nil, pcfg)
	store := NewStore(cfg.JobTTL)
	pool := NewPool(cfg.Workers, cfg.QueueSize, store, func(ctx context.Context, job Job) (*energy.StructureBundle, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return an.AnalyzeFile(job.FilePath)
	})

	s := &Server{
		cfg:    cfg,
		store:  store,
		pool:   pool,
		logger: logging.GetGlobalLogger(),
	}
	s.engine = s.buildRouter()
	return s
}

func (s *Server) buildRouter() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.MaxMultipartMemory = s.cfg.MaxUploadMB << 20

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	engine.Use(cors.New(corsCfg))

	engine.GET("/health", s.handleHealth)

	v1 := engine.Group("/api/v1")
	{
		v1.POST("/analyze", s.handleAnalyze)
		v1.GET("/jobs/:id", s.handleStatus)
		v1.GET("/jobs/:id/result", s.handleResult)
	}
	return engine
}

// Run starts the workers, the cleanup sweeper and the HTTP listener, and
// blocks until ctx is canceled or the listener fails
func (s *Server) Run(ctx context.Context) error {
	poolCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	s.pool.Start(poolCtx)
	go s.sweepLoop(poolCtx)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", s.cfg.Port),
		Handler: s.engine,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", logging.Fields{"port": s.cfg.Port})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Warn("shutdown incomplete", logging.Fields{"error": err.Error()})
		}
		cancel()
		s.pool.Wait()
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: listen: %w", err)
	}
}

func (s *Server) sweepLoop(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.store.Sweep(now)
		}
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"jobs":   s.store.Len(),
	})
}

func (s *Server) handleAnalyze(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file field"})
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if ext != ".mp3" && ext != ".wav" {
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": "only mp3 and wav uploads are supported"})
		return
	}

	tmpPath, err := s.saveUpload(file, ext)
	if err != nil {
		s.logger.Error(err, "upload save failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store upload"})
		return
	}

	job := s.store.Create(header.Filename, tmpPath)
	if !s.pool.Submit(job.ID) {
		s.store.MarkRunning(job.ID)
		s.store.Fail(job.ID, "queue full")
		removeQuietly(tmpPath)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "analysis queue is full, retry later"})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"job_id": job.ID,
		"state":  job.State.String(),
	})
}

func (s *Server) handleStatus(c *gin.Context) {
	job, ok := s.store.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown job"})
		return
	}

	resp := gin.H{
		"job_id":    job.ID,
		"state":     job.State.String(),
		"filename":  job.Filename,
		"submitted": job.Submitted,
	}
	if job.Err != "" {
		resp["error"] = job.Err
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleResult(c *gin.Context) {
	job, ok := s.store.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown job"})
		return
	}

	switch job.State {
	case JobDone:
		c.JSON(http.StatusOK, job.Result)
	case JobPending, JobRunning:
		c.JSON(http.StatusAccepted, gin.H{"state": job.State.String()})
	case JobFailed:
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": job.Err})
	default:
		c.JSON(http.StatusGone, gin.H{"error": "result expired"})
	}
}

func (s *Server) saveUpload(src io.Reader, ext string) (string, error) {
	tmp, err := os.CreateTemp(s.cfg.TempDir, "rollercoaster-*"+ext)
	if err != nil {
		return "", err
	}
	defer tmp.Close()

	if _, err := io.Copy(tmp, src); err != nil {
		os.Remove(tmp.Name())
		return "", err
	}
	return tmp.Name(), nil
}
