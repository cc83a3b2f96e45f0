package prompt

import (
	"strings"
	"testing"
)

func TestTextInputModel_Enter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		def       string
		required  bool
		typed     string
		wantDone  bool
		wantValue string
		wantError bool
	}{
		{"typed value wins", "~/code/work", true, "/srv/work", true, "/srv/work", false},
		{"empty takes default", "~/code/work", true, "", true, "~/code/work", false},
		{"required without default rejects empty", "", true, "", false, "", true},
		{"required rejects whitespace", "", true, "   ", false, "", true},
		{"optional accepts empty", "", false, "", true, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := newTextInputModel("Directory:", tt.def, tt.required)
			m.textInput.SetValue(tt.typed)

			updated, cmd := m.Update(keyPress("enter"))
			um := updated.(textInputModel)

			if um.done != tt.wantDone {
				t.Errorf("done = %v, want %v", um.done, tt.wantDone)
			}
			if (cmd != nil) != tt.wantDone {
				t.Errorf("quit cmd = %v, want %v", cmd != nil, tt.wantDone)
			}
			if got := um.value(); got != tt.wantValue {
				t.Errorf("value() = %q, want %q", got, tt.wantValue)
			}
			if (um.errMsg != "") != tt.wantError {
				t.Errorf("errMsg = %q, want error %v", um.errMsg, tt.wantError)
			}
			if tt.wantError && !strings.Contains(um.View().Content, "required") {
				t.Errorf("View() should show the error, got %q", um.View().Content)
			}
		})
	}
}

func TestTextInputModel_Cancel(t *testing.T) {
	t.Parallel()

	for _, key := range []string{"esc", "ctrl+c"} {
		m := newTextInputModel("Name:", "", true)
		updated, cmd := m.Update(keyPress(key))
		um := updated.(textInputModel)
		if !um.cancelled || !um.done || cmd == nil {
			t.Errorf("%s: cancelled=%v done=%v cmd=%v", key, um.cancelled, um.done, cmd != nil)
		}
	}
}

func TestTextInputModel_ViewDone(t *testing.T) {
	t.Parallel()

	m := newTextInputModel("Name:", "", false)
	m.done = true
	if got := m.View().Content; got != "" {
		t.Errorf("View() when done = %q, want empty", got)
	}
}
