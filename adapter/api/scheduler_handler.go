package api

import (
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/felixgeelhaar/orbita/internal/scheduling/infrastructure/idempotency"
	"github.com/felixgeelhaar/orbita/internal/scheduling/solver"
)

// SchedulerHandler exposes the day-scheduler and its upstream/downstream
// collaborators (ingest, plan, solve, critic, apply, learn) as an HTTP
// contract. Ingest/plan/critic/apply/learn are specified only by the
// shapes they consume and produce; they never touch the CP-SAT core.
type SchedulerHandler struct {
	logger      *slog.Logger
	idempotency idempotency.Store
}

// NewSchedulerHandler creates a new scheduler handler.
func NewSchedulerHandler(logger *slog.Logger, store idempotency.Store) *SchedulerHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if store == nil {
		store = idempotency.NewInMemoryStore(idempotency.DefaultTTL)
	}
	return &SchedulerHandler{logger: logger, idempotency: store}
}

var (
	durationPattern = regexp.MustCompile(`(?i)(\d+)\s*(m|min|minutes|h|hr|hours)`)
	deepPattern     = regexp.MustCompile(`(?i)\bdeep\b`)
	lightPattern    = regexp.MustCompile(`(?i)\blight\b`)
	stripPattern    = regexp.MustCompile(`(?i)(\d+\s*(m|min|minutes|h|hr|hours))|\bdeep\b|\blight\b`)
)

// IngestRequest is the payload for POST /ingest.
type IngestRequest struct {
	RawInput string `json:"raw_input"`
}

// IngestedTask is one task extracted from free text.
type IngestedTask struct {
	ID         string  `json:"id"`
	UserID     string  `json:"user_id"`
	Title      string  `json:"title"`
	DurationMin *int   `json:"duration_min"`
	Energy     *string `json:"energy"`
}

// IngestResponse is the response for POST /ingest.
type IngestResponse struct {
	Tasks []IngestedTask `json:"tasks"`
}

// Ingest handles POST /ingest: a minimal regex-based extraction of a
// duration and energy class from one free-text line, grounded on the
// upstream ingest collaborator's contract. NL task ingestion beyond
// this single-line pattern match is out of scope.
func (h *SchedulerHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	var req IngestRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	text := strings.TrimSpace(req.RawInput)

	var durationMin *int
	if m := durationPattern.FindStringSubmatch(text); m != nil {
		val, _ := strconv.Atoi(m[1])
		if strings.HasPrefix(strings.ToLower(m[2]), "h") {
			val *= 60
		}
		durationMin = &val
	}

	var energy *string
	switch {
	case deepPattern.MatchString(text):
		v := "deep"
		energy = &v
	case lightPattern.MatchString(text):
		v := "light"
		energy = &v
	}

	title := strings.TrimSpace(stripPattern.ReplaceAllString(text, ""))
	if title == "" {
		title = text
	}

	writeJSON(w, http.StatusOK, IngestResponse{
		Tasks: []IngestedTask{{
			ID:          "t_ingest_1",
			UserID:      "u_demo",
			Title:       title,
			DurationMin: durationMin,
			Energy:      energy,
		}},
	})
}

// PlanTaskIn is one task as submitted to POST /plan, before defaults
// are filled in.
type PlanTaskIn struct {
	ID              string   `json:"id"`
	UserID          string   `json:"user_id"`
	Title           string   `json:"title"`
	DurationMin     *int     `json:"duration_min"`
	Priority        *float64 `json:"priority"`
	Energy          *string  `json:"energy"`
	EarliestStartDt *string  `json:"earliest_start_dt"`
	LatestEndDt     *string  `json:"latest_end_dt"`
}

// PlanRequest is the payload for POST /plan.
type PlanRequest struct {
	Tasks []PlanTaskIn   `json:"tasks"`
	Prefs map[string]any `json:"prefs,omitempty"`
}

// PlannedTask is one task with defaults applied.
type PlannedTask struct {
	TaskID          string  `json:"task_id"`
	DurationMin     int     `json:"duration_min"`
	Priority        float64 `json:"priority"`
	Energy          string  `json:"energy"`
	EarliestStartDt *string `json:"earliest_start_dt,omitempty"`
	LatestEndDt     *string `json:"latest_end_dt,omitempty"`
}

// PlanResponse is the response for POST /plan.
type PlanResponse struct {
	PlannedTasks []PlannedTask `json:"planned_tasks"`
}

// Plan handles POST /plan: fills in the defaults a planner upstream of
// the scheduler is expected to apply.
func (h *SchedulerHandler) Plan(w http.ResponseWriter, r *http.Request) {
	var req PlanRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	planned := make([]PlannedTask, 0, len(req.Tasks))
	for _, t := range req.Tasks {
		durationMin := 60
		if t.DurationMin != nil {
			durationMin = *t.DurationMin
		}
		priority := 0.7
		if t.Priority != nil {
			priority = *t.Priority
		}
		energy := "deep"
		if t.Energy != nil {
			energy = *t.Energy
		}
		planned = append(planned, PlannedTask{
			TaskID:          t.ID,
			DurationMin:     durationMin,
			Priority:        priority,
			Energy:          energy,
			EarliestStartDt: t.EarliestStartDt,
			LatestEndDt:     t.LatestEndDt,
		})
	}

	writeJSON(w, http.StatusOK, PlanResponse{PlannedTasks: planned})
}

// taskDTO is the wire shape of a Shape A task.
type taskDTO struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	EstimatedMinutes int      `json:"estimated_minutes"`
	Priority         float64  `json:"priority"`
	Energy           string   `json:"energy"`
	StartAfter       *string  `json:"start_after"`
	DueAt            *string  `json:"due_at"`
	TaskType         string   `json:"task_type"`
}

// plannedTaskDTO is the wire shape of a Shape B planned task.
type plannedTaskDTO struct {
	TaskID      string `json:"task_id"`
	DurationMin int    `json:"duration_min"`
}

type fixedEventDTO struct {
	ID       string `json:"id"`
	StartDt  string `json:"start_dt"`
	EndDt    string `json:"end_dt"`
	Blocking *bool  `json:"blocking,omitempty"`
}

type dayWindowDTO struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type prefsDTO struct {
	WorkStart           string           `json:"work_start"`
	WorkEnd             string           `json:"work_end"`
	WorkHoursByDay      map[string]dayWindowDTO `json:"work_hours_by_day,omitempty"`
	AllowOvertime       bool             `json:"allow_overtime"`
	MaxOvertimeMinutes  int              `json:"max_overtime_minutes"`
	BufferMinutes       int              `json:"buffer_minutes"`
	EnergyProfileByHour map[string]float64 `json:"energy_profile_by_hour,omitempty"`
	DeepWorkMorning     float64          `json:"deep_work_morning"`
	SlotMinutes         int              `json:"slot_minutes"`
}

// SolveRequest accepts either Shape A (tasks) or Shape B
// (planned_tasks); FixedEvents, Prefs, and Date are common to both,
// with Prefs and Date defaulted when Shape B omits them.
type SolveRequest struct {
	Tasks        []taskDTO        `json:"tasks,omitempty"`
	PlannedTasks []plannedTaskDTO `json:"planned_tasks,omitempty"`
	FixedEvents  []fixedEventDTO  `json:"fixed_events"`
	Prefs        *prefsDTO        `json:"prefs,omitempty"`
	Date         string           `json:"date,omitempty"`
	Timezone     string           `json:"timezone,omitempty"`
}

// ScheduledBlockDTO is one output timeline entry.
type ScheduledBlockDTO struct {
	TaskID     string  `json:"task_id,omitempty"`
	Title      string  `json:"title"`
	Start      string  `json:"start"`
	End        string  `json:"end"`
	BlockType  string  `json:"block_type"`
	Confidence float64 `json:"confidence,omitempty"`
	Reason     string  `json:"reason,omitempty"`
}

// SolveResponse is the response for POST /solve.
type SolveResponse struct {
	Success     bool                `json:"success"`
	Blocks      []ScheduledBlockDTO `json:"blocks"`
	Unscheduled []string            `json:"unscheduled"`
	TotalScore  float64             `json:"total_score"`
	Messages    []string            `json:"messages,omitempty"`
}

// Solve handles POST /solve for both Shape A and Shape B requests.
func (h *SchedulerHandler) Solve(w http.ResponseWriter, r *http.Request) {
	var req SolveRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	loc, err := resolveRequestTimezone(req.Timezone)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid timezone: "+err.Error())
		return
	}

	date, err := resolveRequestDate(req.Date, loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date: "+err.Error())
		return
	}

	var tasks []solver.Task
	if len(req.Tasks) > 0 {
		tasks, err = toSolverTasksFromDTO(req.Tasks, loc)
	} else {
		tasks, err = toSolverTasksFromPlanned(req.PlannedTasks)
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid task: "+err.Error())
		return
	}

	events, err := toSolverFixedEventsFromDTO(req.FixedEvents, loc)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid fixed_event: "+err.Error())
		return
	}

	in := solver.SolveInput{
		Tasks:       tasks,
		FixedEvents: events,
		Prefs:       toSolverPrefs(req.Prefs),
		Date:        date,
		Timezone:    req.Timezone,
	}

	out := solver.Solve(r.Context(), in)
	writeJSON(w, http.StatusOK, toSolveResponse(out))
}

// ProposedEvent is one task placement, proposed by a solve and
// re-validated by the critic, then committed by apply.
type ProposedEvent struct {
	TaskID  string `json:"task_id"`
	StartDt string `json:"start_dt"`
	EndDt   string `json:"end_dt"`
}

type criticFixedEvent struct {
	ID      string `json:"id"`
	StartDt string `json:"start_dt"`
	EndDt   string `json:"end_dt"`
}

// CriticRequest is the payload for POST /critic.
type CriticRequest struct {
	ProposedEvents []ProposedEvent    `json:"proposed_events"`
	FixedEvents    []criticFixedEvent `json:"fixed_events"`
}

// ReplanRequest carries a hint back when the critic rejects a solve.
type ReplanRequest struct {
	Reason string   `json:"reason"`
	Hints  []string `json:"hints"`
}

// CriticResponse is the response for POST /critic.
type CriticResponse struct {
	Approve       bool           `json:"approve"`
	ReplanRequest *ReplanRequest `json:"replan_request,omitempty"`
	Violations    []string       `json:"violations"`
}

// Critic handles POST /critic: approve=true iff no proposed event
// overlaps a fixed event under strict inequality on the endpoints —
// two events that only touch at a boundary are not a violation.
func (h *SchedulerHandler) Critic(w http.ResponseWriter, r *http.Request) {
	var req CriticRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	violations := make([]string, 0)
	for _, pe := range req.ProposedEvents {
		ps, pe1, err := parseRange(pe.StartDt, pe.EndDt)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid proposed_event: "+err.Error())
			return
		}
		for _, fe := range req.FixedEvents {
			fs, fe1, err := parseRange(fe.StartDt, fe.EndDt)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid fixed_event: "+err.Error())
				return
			}
			if !(pe1.Equal(fs) || pe1.Before(fs) || ps.Equal(fe1) || ps.After(fe1)) {
				violations = append(violations, "overlap:"+pe.TaskID+":"+fe.ID)
			}
		}
	}

	resp := CriticResponse{Approve: len(violations) == 0, Violations: violations}
	if !resp.Approve {
		resp.ReplanRequest = &ReplanRequest{Reason: "overlap", Hints: []string{"adjust windows"}}
	}
	writeJSON(w, http.StatusOK, resp)
}

// ApplyRequest is the payload for POST /apply.
type ApplyRequest struct {
	Events []ProposedEvent `json:"events"`
}

// ApplyResponse is the response for POST /apply.
type ApplyResponse struct {
	Diff     []string `json:"diff"`
	Receipts []string `json:"receipts"`
}

// Apply handles POST /apply. It defaults to dry-run (no mutation, no
// idempotency check) unless ?dry_run=false is given; a non-dry-run
// replay of the same X-Idempotency-Key short-circuits to a no-op.
func (h *SchedulerHandler) Apply(w http.ResponseWriter, r *http.Request) {
	var req ApplyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	dryRun := parseBoolParam(r, "dry_run", true)
	key := r.Header.Get("X-Idempotency-Key")
	if key == "" {
		key = "no-key"
	}

	if !dryRun {
		seen, err := h.idempotency.Seen(r.Context(), key)
		if err != nil {
			h.logger.Error("idempotency check failed", "error", err)
			writeError(w, http.StatusInternalServerError, "idempotency check failed")
			return
		}
		if seen {
			writeJSON(w, http.StatusOK, ApplyResponse{Diff: []string{}, Receipts: []string{"idempotent:no-op"}})
			return
		}
	}

	diff := make([]string, 0, len(req.Events))
	for _, e := range req.Events {
		diff = append(diff, "ADD "+e.TaskID+" "+e.StartDt+"->"+e.EndDt)
	}

	receipts := make([]string, 0)
	if !dryRun {
		if err := h.idempotency.Remember(r.Context(), key); err != nil {
			h.logger.Error("failed to remember idempotency key", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to record apply")
			return
		}
		for i := range req.Events {
			receipts = append(receipts, "google:"+strconv.Itoa(i))
		}
	}

	writeJSON(w, http.StatusOK, ApplyResponse{Diff: diff, Receipts: receipts})
}

// LearnRequest is the payload for POST /learn.
type LearnRequest struct {
	Telemetry map[string]any `json:"telemetry"`
}

// LearnResponse is the response for POST /learn.
type LearnResponse struct {
	UpdatedWeights map[string]float64 `json:"updated_weights"`
	Rationale      string             `json:"rationale"`
}

// Learn handles POST /learn: an exponential-moving-average update of
// the deep-work-morning objective weight from an observed outcome.
func (h *SchedulerHandler) Learn(w http.ResponseWriter, r *http.Request) {
	var req LearnRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	const currentWeight = 0.5
	observed := 1.0
	if v, ok := req.Telemetry["observed"]; ok {
		if f, ok := toFloat(v); ok {
			observed = f
		}
	}

	updated := 0.8*currentWeight + 0.2*observed

	writeJSON(w, http.StatusOK, LearnResponse{
		UpdatedWeights: map[string]float64{"deep_work_morning": updated},
		Rationale:      "EWMA update",
	})
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	}
	return 0, false
}

func parseRange(startDt, endDt string) (time.Time, time.Time, error) {
	start, err := time.Parse(time.RFC3339, startDt)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	end, err := time.Parse(time.RFC3339, endDt)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return start, end, nil
}

