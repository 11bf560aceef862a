package async

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type messager struct{}

func (messager) Message() string { return "from method" }

type withMessage struct {
	Message string
	Code    int
}

type withHiddenMessage struct {
	message string
}

type problem struct{ Code int }

func TestNormalize(t *testing.T) {
	sentinel := errors.New("sentinel")
	var nilProblem *problem

	tests := []struct {
		name   string
		reason any
		want   string // empty means a nil error
		same   error
	}{
		{name: "nil", reason: nil},
		{name: "nil pointer", reason: nilProblem},
		{name: "error", reason: sentinel, same: sentinel},
		{name: "string", reason: "boom", want: "boom"},
		{name: "empty string", reason: "", want: ""},
		{name: "int", reason: 42, want: "42"},
		{name: "bool", reason: false, want: "false"},
		{name: "float", reason: 1.5, want: "1.5"},
		{name: "messager", reason: messager{}, want: "from method"},
		{name: "map message", reason: map[string]any{"message": "from map"}, want: "from map"},
		{name: "map non-string message", reason: map[string]int{"message": 7}, want: "7"},
		{name: "struct message", reason: withMessage{Message: "from struct"}, want: "from struct"},
		{name: "struct pointer message", reason: &withMessage{Message: "from pointer"}, want: "from pointer"},
		{name: "unexported message", reason: withHiddenMessage{message: "x"}, same: ErrUnknown},
		{name: "map without message", reason: map[string]any{"code": 1}, same: ErrUnknown},
		{name: "struct without message", reason: problem{Code: 1}, same: ErrUnknown},
		{name: "slice", reason: []int{1}, same: ErrUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Normalize(tt.reason)
			switch {
			case tt.same != nil:
				assert.Same(t, tt.same, err)
			case tt.want == "" && tt.reason == nil, tt.name == "nil pointer":
				assert.NoError(t, err)
			default:
				if assert.Error(t, err) {
					assert.Equal(t, tt.want, err.Error())
				}
			}
		})
	}
}

func TestNormalizeStrict(t *testing.T) {
	sentinel := errors.New("sentinel")

	assert.Same(t, ErrUnknown, NormalizeStrict(nil))
	assert.Same(t, ErrUnknown, NormalizeStrict((*problem)(nil)))
	assert.Same(t, sentinel, NormalizeStrict(sentinel))
	assert.EqualError(t, NormalizeStrict("boom"), "boom")
	assert.EqualError(t, NormalizeStrict(0), "0")
	assert.Same(t, ErrUnknown, NormalizeStrict(withMessage{Message: "ignored"}))
	assert.Same(t, ErrUnknown, NormalizeStrict(map[string]any{"message": "ignored"}))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "pending", Pending.String())
	assert.Equal(t, "settled_ok", SettledOk.String())
	assert.Equal(t, "settled_error", SettledError.String())
	assert.Equal(t, "unknown", State(99).String())
}
