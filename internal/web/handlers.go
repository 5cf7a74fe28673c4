package web

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"lyrsync/internal/pipeline"
	"lyrsync/internal/provider"
)

type FetchRequest struct {
	Path      string `json:"path"`
	Provider  string `json:"provider,omitempty"`
	Overwrite bool   `json:"overwrite,omitempty"`
	DryRun    bool   `json:"dry_run,omitempty"`
}

type JobResponse struct {
	ID          string          `json:"id"`
	Path        string          `json:"path"`
	Status      JobStatus       `json:"status"`
	Progress    int             `json:"progress"`
	Total       int             `json:"total"`
	Stats       *pipeline.Stats `json:"stats,omitempty"`
	Error       string          `json:"error,omitempty"`
	CreatedAt   string          `json:"created_at"`
	StartedAt   *string         `json:"started_at,omitempty"`
	CompletedAt *string         `json:"completed_at,omitempty"`
}

func (s *Server) handleFetch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req FetchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	// Create job config with the requested overrides
	jobConfig := s.config
	if req.Path != "" {
		jobConfig.MusicPath = req.Path
	}
	if req.Provider != "" {
		jobConfig.APIProvider = req.Provider
	}
	if req.Overwrite {
		jobConfig.Overwrite = true
	}
	if req.DryRun {
		jobConfig.DryRun = true
	}

	if err := jobConfig.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	// Create job
	job := s.jobMgr.CreateJob(jobConfig.MusicPath, jobConfig)
	s.logger.Info("Created job %s for path: %s", job.ID, jobConfig.MusicPath)

	// Start fetch in background
	go s.processJob(job)

	// Return job info
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.jobToResponse(job))
}

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	jobs := s.jobMgr.ListJobs()
	responses := make([]*JobResponse, len(jobs))
	for i, job := range jobs {
		responses[i] = s.jobToResponse(job)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(responses)
}

func (s *Server) handleJobAction(w http.ResponseWriter, r *http.Request) {
	// Extract job ID from path: /api/jobs/{id} or /api/jobs/{id}/cancel
	path := strings.TrimPrefix(r.URL.Path, "/api/jobs/")
	parts := strings.Split(path, "/")
	if len(parts) == 0 || parts[0] == "" {
		http.Error(w, "Job ID required", http.StatusBadRequest)
		return
	}

	jobID := parts[0]

	// Handle GET /api/jobs/{id}
	if r.Method == http.MethodGet && len(parts) == 1 {
		job, err := s.jobMgr.GetJob(jobID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(s.jobToResponse(job))
		return
	}

	// Handle POST /api/jobs/{id}/cancel
	if r.Method == http.MethodPost && len(parts) == 2 && parts[1] == "cancel" {
		job, err := s.jobMgr.GetJob(jobID)
		if err != nil {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}

		if job.Cancel != nil {
			job.Cancel()
		}

		s.jobMgr.UpdateJob(jobID, func(j *Job) {
			j.Status = StatusCancelled
		})

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "cancelled"})
		return
	}

	http.Error(w, "Invalid request", http.StatusBadRequest)
}

func (s *Server) processJob(job *Job) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Store cancel function in job
	s.jobMgr.UpdateJob(job.ID, func(j *Job) {
		j.Cancel = cancel
		j.Status = StatusRunning
	})

	s.logger.Info("Starting job %s", job.ID)

	prov := provider.ForConfig(job.Config)
	defer prov.Close()

	hooks := pipeline.Hooks{
		OnScanComplete: func(total int) {
			s.jobMgr.UpdateJob(job.ID, func(j *Job) {
				j.Total = total
			})
		},
		OnProgress: func() {
			s.jobMgr.UpdateJob(job.ID, func(j *Job) {
				j.Progress++
			})
		},
	}

	stats, err := pipeline.Run(ctx, job.Config, s.logger, prov, hooks)
	if err != nil {
		s.logger.Error("Job %s failed: %v", job.ID, err)
		s.jobMgr.UpdateJob(job.ID, func(j *Job) {
			// Cancellation through the API already set the final status.
			if j.Status != StatusCancelled {
				j.Status = StatusFailed
				j.Error = err.Error()
			}
		})
		return
	}

	// Mark as completed
	s.jobMgr.UpdateJob(job.ID, func(j *Job) {
		j.Stats = &stats
		if j.Status != StatusCancelled {
			j.Status = StatusCompleted
		}
	})

	s.logger.Info("Job %s completed: %d lyrics, %d covers, %d without a match",
		job.ID, stats.LyricsWritten, stats.CoversWritten, stats.NoMatch)
}

func (s *Server) jobToResponse(job *Job) *JobResponse {
	resp := &JobResponse{
		ID:        job.ID,
		Path:      job.Path,
		Status:    job.Status,
		Progress:  job.Progress,
		Total:     job.Total,
		Stats:     job.Stats,
		Error:     job.Error,
		CreatedAt: job.CreatedAt.Format("2006-01-02 15:04:05"),
	}

	if job.StartedAt != nil {
		started := job.StartedAt.Format("2006-01-02 15:04:05")
		resp.StartedAt = &started
	}

	if job.CompletedAt != nil {
		completed := job.CompletedAt.Format("2006-01-02 15:04:05")
		resp.CompletedAt = &completed
	}

	return resp
}
