package template

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/mledan/taskometer-sub001/internal/models"
)

const sample = `version: 1
blocks:
  - id: focus
    name: Deep work
    start: "09:00"
    end: "12:00"
    activity_type: work
    flexibility: fixed
  - id: night
    name: Night shift
    start: "22:00"
    end: "06:30"
    category: ops
    allowed_activity_types: [admin]
  - id: flex
    start: "13:00"
    end: "17:00"
    activity_type: buffer
    flexibility: flexible
constraints:
  - activity_type: exercise
    preferred_start: "06:00"
    preferred_end: "08:00"
    allowed_weekdays: mon,wed,fri
  - activity_type: never
    allowed_weekdays: none
  - activity_type: anytime
`

func TestParse(t *testing.T) {
	tpl, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if len(tpl.Blocks) != 3 {
		t.Fatalf("got %d blocks, want 3", len(tpl.Blocks))
	}

	night := tpl.Blocks[1]
	if night.Start != models.NewTimeOfDay(22, 0) || night.End != models.NewTimeOfDay(6, 30) {
		t.Errorf("night block = %s-%s, want 22:00-06:30", night.Start, night.End)
	}
	if !night.CrossesMidnight() || night.EffectiveMinutes() != 510 {
		t.Errorf("night block minutes = %d, want 510 crossing midnight", night.EffectiveMinutes())
	}
	if night.Flexibility != models.FlexibilityPreferred {
		t.Errorf("default flexibility = %q, want preferred", night.Flexibility)
	}
	if !night.Accepts("admin") {
		t.Error("night block should accept admin")
	}
	if tpl.Blocks[2].Name != "flex" {
		t.Errorf("missing name should default to id, got %q", tpl.Blocks[2].Name)
	}

	cs := models.NewConstraintSet(tpl.Constraints)
	ex := cs.For("exercise")
	if ex == nil || ex.PreferredStart == nil || *ex.PreferredStart != models.NewTimeOfDay(6, 0) {
		t.Fatalf("exercise constraint = %+v", ex)
	}
	if ex.AllowedWeekdays == nil || !ex.AllowedWeekdays.Has(time.Wednesday) || ex.AllowedWeekdays.Has(time.Tuesday) {
		t.Errorf("exercise weekdays = %v, want mon,wed,fri", ex.AllowedWeekdays)
	}
	if never := cs.For("never"); never.AllowedWeekdays == nil || !never.AllowedWeekdays.IsEmpty() {
		t.Errorf("never constraint should carry an empty mask, got %v", never.AllowedWeekdays)
	}
	if anytime := cs.For("anytime"); anytime.AllowedWeekdays != nil || anytime.PreferredStart != nil {
		t.Errorf("anytime constraint should be unrestricted, got %+v", anytime)
	}
}

func TestParse_MalformedTimesFallBack(t *testing.T) {
	doc := `blocks:
  - id: broken
    start: "9am"
    end: "25:00"
constraints:
  - activity_type: reading
    preferred_start: "later"
    allowed_weekdays: "someday"
`
	tpl, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	b := tpl.Blocks[0]
	if b.Start != models.NewTimeOfDay(9, 0) {
		t.Errorf("start = %s, want 09:00 default", b.Start)
	}
	if b.End != models.NewTimeOfDay(10, 0) {
		t.Errorf("end = %s, want one hour after start", b.End)
	}

	c := tpl.Constraints[0]
	if c.PreferredStart != nil {
		t.Errorf("malformed preferred_start should be dropped, got %s", c.PreferredStart)
	}
	if c.AllowedWeekdays != nil {
		t.Errorf("malformed weekdays should be dropped, got %v", c.AllowedWeekdays)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{
			name:    "missing id",
			doc:     "blocks:\n  - start: \"09:00\"\n    end: \"10:00\"\n",
			wantErr: "id is required",
		},
		{
			name:    "duplicate id",
			doc:     "blocks:\n  - id: a\n    start: \"09:00\"\n    end: \"10:00\"\n  - id: a\n    start: \"11:00\"\n    end: \"12:00\"\n",
			wantErr: "duplicate id",
		},
		{
			name:    "bad flexibility",
			doc:     "blocks:\n  - id: a\n    start: \"09:00\"\n    end: \"10:00\"\n    flexibility: rigid\n",
			wantErr: "flexibility",
		},
		{
			name:    "constraint without type",
			doc:     "constraints:\n  - preferred_start: \"09:00\"\n",
			wantErr: "activity_type is required",
		},
		{
			name:    "newer version",
			doc:     "version: 9\n",
			wantErr: "newer than supported",
		},
		{
			name:    "invalid yaml",
			doc:     "blocks: [",
			wantErr: "parse template",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Parse() error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	want, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	path := filepath.Join(t.TempDir(), "template.yaml")
	if err := Save(path, want); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Load(Save(t)) = %+v, want %+v", got, want)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "version: 1") {
		t.Errorf("saved file should carry the format version, got:\n%s", data)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load() of a missing file should fail")
	}
}
