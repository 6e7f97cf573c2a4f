package validation

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/mledan/taskometer-sub001/internal/constants"
	"github.com/mledan/taskometer-sub001/internal/models"
	"github.com/mledan/taskometer-sub001/internal/utils"
)

// ConflictType represents the type of validation conflict
type ConflictType string

const (
	ConflictOverlappingScheduled ConflictType = "overlapping_scheduled_tasks"
	ConflictOverlappingFixed     ConflictType = "overlapping_fixed_blocks"
	ConflictDuplicateTaskName    ConflictType = "duplicate_task_name"
	ConflictDuplicateBlockID     ConflictType = "duplicate_block_id"
	ConflictInvalidBlock         ConflictType = "invalid_block"
	ConflictInvalidPlacement     ConflictType = "invalid_placement"
	ConflictEmptyWeekdays        ConflictType = "empty_weekday_mask"
	ConflictUnreachableType      ConflictType = "unreachable_activity_type"
)

// Conflict represents a detected conflict in tasks, the template or constraints
type Conflict struct {
	Type        ConflictType
	Description string
	Items       []string // Task/block names involved
	TimeRange   string   // Human-readable time range (if applicable)
	TaskIDs     []string // IDs of tasks involved (for auto-fixing)
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// FixAction represents an action taken during auto-fix
type FixAction struct {
	Action         string   // Human-readable description of the action
	SourceConflict Conflict // The conflict that triggered this fix action
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// Merge appends the conflicts of other.
func (vr *ValidationResult) Merge(other ValidationResult) {
	vr.Conflicts = append(vr.Conflicts, other.Conflicts...)
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var report strings.Builder
	report.WriteString("Conflicts detected:\n")
	for _, conflict := range vr.Conflicts {
		fmt.Fprintf(&report, "- %s\n", conflict.Description)
	}
	return report.String()
}

// Validator checks stored scheduling data for problems the scheduler would
// otherwise silently work around.
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidateTasks checks tasks for duplicate names, bad placement requests and
// overlapping scheduled intervals.
func (v *Validator) ValidateTasks(tasks []models.Task) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	nameCount := make(map[string][]string)
	var names []string
	for _, task := range tasks {
		if task.DeletedAt != nil || task.Name == "" {
			continue
		}
		if _, seen := nameCount[task.Name]; !seen {
			names = append(names, task.Name)
		}
		nameCount[task.Name] = append(nameCount[task.Name], task.ID)
	}

	for _, name := range names {
		ids := nameCount[name]
		if len(ids) > 1 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDuplicateTaskName,
				Description: fmt.Sprintf("Duplicate task name: \"%s\" (IDs: %v)", name, ids),
				Items:       []string{name},
				TaskIDs:     ids,
			})
		}
	}

	for _, task := range tasks {
		if task.DeletedAt != nil {
			continue
		}
		if msg := placementProblem(task.Placement); msg != "" {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidPlacement,
				Description: fmt.Sprintf("Task \"%s\" %s", task.Name, msg),
				Items:       []string{task.Name},
				TaskIDs:     []string{task.ID},
			})
		}
	}

	var scheduled []models.Task
	for _, task := range tasks {
		if task.DeletedAt != nil || task.IsCompleted() || !task.IsScheduled() {
			continue
		}
		scheduled = append(scheduled, task)
	}
	sort.SliceStable(scheduled, func(i, j int) bool {
		return scheduled[i].ScheduledAt.Before(*scheduled[j].ScheduledAt)
	})

	// O(n²) in the worst case; the sort lets us stop at the first task that
	// starts after t1 ends.
	for i := 0; i < len(scheduled); i++ {
		t1 := scheduled[i]
		s1, e1, _ := t1.Interval()
		for j := i + 1; j < len(scheduled); j++ {
			t2 := scheduled[j]
			s2, e2, _ := t2.Interval()
			if !s2.Before(e1) {
				break
			}
			if utils.Overlaps(s1, e1, s2, e2) {
				result.Conflicts = append(result.Conflicts, Conflict{
					Type: ConflictOverlappingScheduled,
					Description: fmt.Sprintf("Scheduled tasks overlap: \"%s\" (%s) and \"%s\" (%s)",
						t1.Name, s1.Format(constants.DateTimeFormat), t2.Name, s2.Format(constants.DateTimeFormat)),
					Items:     []string{t1.Name, t2.Name},
					TimeRange: fmt.Sprintf("%s-%s", s2.Format(constants.TimeFormat), e1.Format(constants.TimeFormat)),
					TaskIDs:   []string{t1.ID, t2.ID},
				})
			}
		}
	}

	return result
}

// ValidateTemplate checks the daily template for duplicate IDs, unknown
// flexibility values, blocks nothing can be placed in and overlapping fixed
// blocks.
func (v *Validator) ValidateTemplate(blocks []models.TimeBlock) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	seen := make(map[string]bool)
	for _, b := range blocks {
		if b.ID == "" {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidBlock,
				Description: fmt.Sprintf("Block \"%s\" has no ID", b.Name),
				Items:       []string{b.Name},
			})
		} else if seen[b.ID] {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictDuplicateBlockID,
				Description: fmt.Sprintf("Duplicate block ID: %s", b.ID),
				Items:       []string{b.ID},
			})
		}
		seen[b.ID] = true

		if b.Flexibility != "" && !b.Flexibility.Valid() {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidBlock,
				Description: fmt.Sprintf("Block \"%s\" has unknown flexibility %q", blockLabel(b), b.Flexibility),
				Items:       []string{blockLabel(b)},
			})
		}

		if b.ActivityType == "" && b.Category == "" && len(b.AllowedActivityTypes) == 0 {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictInvalidBlock,
				Description: fmt.Sprintf("Block \"%s\" accepts no activity type", blockLabel(b)),
				Items:       []string{blockLabel(b)},
			})
		}
	}

	var fixed []models.TimeBlock
	for _, b := range blocks {
		if b.Flexibility == models.FlexibilityFixed {
			fixed = append(fixed, b)
		}
	}
	sort.SliceStable(fixed, func(i, j int) bool {
		return fixed[i].Start < fixed[j].Start
	})

	for i := 0; i < len(fixed); i++ {
		for j := i + 1; j < len(fixed); j++ {
			b1, b2 := fixed[i], fixed[j]
			if blocksOverlap(b1, b2) {
				result.Conflicts = append(result.Conflicts, Conflict{
					Type: ConflictOverlappingFixed,
					Description: fmt.Sprintf("Fixed blocks overlap: \"%s\" (%s-%s) and \"%s\" (%s-%s)",
						blockLabel(b1), b1.Start, b1.End, blockLabel(b2), b2.Start, b2.End),
					Items:     []string{blockLabel(b1), blockLabel(b2)},
					TimeRange: fmt.Sprintf("%s-%s", b2.Start, b1.End),
				})
			}
		}
	}

	return result
}

// ValidateConstraints reports activity types whose constraints can never be
// satisfied, either because no weekday is allowed or because no block in the
// template accepts them.
func (v *Validator) ValidateConstraints(constraints models.ConstraintSet, blocks []models.TimeBlock) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	types := make([]string, 0, len(constraints))
	for activity := range constraints {
		types = append(types, activity)
	}
	sort.Strings(types)

	for _, activity := range types {
		c := constraints[activity]
		if c.AllowedWeekdays != nil && c.AllowedWeekdays.IsEmpty() {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictEmptyWeekdays,
				Description: fmt.Sprintf("Constraint for \"%s\" allows no weekday; its tasks can never be auto-placed", activity),
				Items:       []string{activity},
			})
		}

		if len(blocks) > 0 && !anyBlockAccepts(blocks, activity) {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        ConflictUnreachableType,
				Description: fmt.Sprintf("No template block accepts \"%s\"; its tasks fall back to buffer blocks", activity),
				Items:       []string{activity},
			})
		}
	}

	return result
}

// AutoFixDuplicateTasks fixes duplicate task conflicts by keeping a single task and soft-deleting the others
// Returns a slice of FixActions describing what was fixed
func AutoFixDuplicateTasks(conflicts []Conflict, tasks []models.Task, deleteFunc func(id string) error) []FixAction {
	actions := []FixAction{}

	taskMap := make(map[string]models.Task)
	for _, task := range tasks {
		taskMap[task.ID] = task
	}

	for _, conflict := range conflicts {
		if conflict.Type != ConflictDuplicateTaskName || len(conflict.TaskIDs) <= 1 {
			continue
		}

		var candidates []models.Task
		for _, id := range conflict.TaskIDs {
			if task, ok := taskMap[id]; ok && task.DeletedAt == nil {
				candidates = append(candidates, task)
			}
		}
		if len(candidates) <= 1 {
			continue
		}

		// Keep the oldest task; IDs break ties so reruns agree.
		sort.Slice(candidates, func(i, j int) bool {
			if !candidates[i].CreatedAt.Equal(candidates[j].CreatedAt) {
				return candidates[i].CreatedAt.Before(candidates[j].CreatedAt)
			}
			return candidates[i].ID < candidates[j].ID
		})

		keep := candidates[0]
		var deletedIDs, failedIDs []string
		for _, task := range candidates[1:] {
			if err := deleteFunc(task.ID); err == nil {
				deletedIDs = append(deletedIDs, task.ID)
			} else {
				failedIDs = append(failedIDs, task.ID)
			}
		}

		if len(deletedIDs) > 0 {
			actionMsg := fmt.Sprintf("Removed %d duplicate task(s) with name \"%s\" (kept ID: %s, removed: %v)", len(deletedIDs), keep.Name, keep.ID, deletedIDs)
			if len(failedIDs) > 0 {
				actionMsg += fmt.Sprintf(" (failed to remove: %v)", failedIDs)
			}
			actions = append(actions, FixAction{Action: actionMsg, SourceConflict: conflict})
		} else if len(failedIDs) > 0 {
			actions = append(actions, FixAction{
				Action:         fmt.Sprintf("Failed to remove duplicates for \"%s\": %v", keep.Name, failedIDs),
				SourceConflict: conflict,
			})
		}
	}

	return actions
}

// Helper functions

func placementProblem(p models.Placement) string {
	switch p.Mode {
	case models.PlacementAuto, "":
		return ""
	case models.PlacementDelay:
		if p.DelayMin < 0 {
			return fmt.Sprintf("has a negative delay (%d min)", p.DelayMin)
		}
	case models.PlacementSpecific:
		if p.Date != "" {
			if _, err := utils.ParseDateInLocation(p.Date, time.UTC); err != nil {
				return fmt.Sprintf("has an invalid placement date: %s", p.Date)
			}
		}
	default:
		return fmt.Sprintf("has unknown placement mode %q", p.Mode)
	}
	return ""
}

// blocksOverlap compares two blocks as minute ranges on a 48h axis so blocks
// that cross midnight are handled. Each block is also compared shifted a
// day earlier to catch the wrapped part.
func blocksOverlap(a, b models.TimeBlock) bool {
	as, ae := int(a.Start), int(a.Start)+a.EffectiveMinutes()
	bs, be := int(b.Start), int(b.Start)+b.EffectiveMinutes()
	for _, shift := range []int{-constants.MinutesPerDay, 0, constants.MinutesPerDay} {
		if as < be+shift && bs+shift < ae {
			return true
		}
	}
	return false
}

func anyBlockAccepts(blocks []models.TimeBlock, activity string) bool {
	for _, b := range blocks {
		if b.Accepts(activity) {
			return true
		}
	}
	return false
}

func blockLabel(b models.TimeBlock) string {
	if b.Name != "" {
		return b.Name
	}
	return b.ID
}
