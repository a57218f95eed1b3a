package buttons

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrymomot/opsdesk/pkg/sanitizer"
	"github.com/dmitrymomot/opsdesk/pkg/validator"
)

type ActionType string

const (
	ActionOpenURL  ActionType = "open_url"
	ActionWebhook  ActionType = "webhook"
	ActionRunTool  ActionType = "run_tool"
	ActionCopyText ActionType = "copy_text"
)

// ActionTypes lists every supported kind.
var ActionTypes = []ActionType{ActionOpenURL, ActionWebhook, ActionRunTool, ActionCopyText}

const (
	maxURLLength     = 2048
	maxPayloadLength = 8192
	maxTextLength    = 4096
)

var webhookMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete}

// Action is what a button does when pressed.
type Action interface {
	Type() ActionType
	rules() []validator.Rule
}

type OpenURL struct {
	URL    string `json:"url" bson:"url"`
	NewTab bool   `json:"newTab" bson:"new_tab"`
}

func (OpenURL) Type() ActionType { return ActionOpenURL }

func (a OpenURL) rules() []validator.Rule {
	return []validator.Rule{
		validator.RequiredString("parameters.url", a.URL),
		validator.MaxLenString("parameters.url", a.URL, maxURLLength),
		validator.ValidURLWithScheme("parameters.url", a.URL, "http", "https"),
	}
}

// Webhook sends Payload to URL. Method defaults to POST.
type Webhook struct {
	URL     string `json:"url" bson:"url"`
	Method  string `json:"method" bson:"method"`
	Payload string `json:"payload,omitempty" bson:"payload,omitempty"`
}

func (Webhook) Type() ActionType { return ActionWebhook }

func (a Webhook) rules() []validator.Rule {
	return []validator.Rule{
		validator.RequiredString("parameters.url", a.URL),
		validator.MaxLenString("parameters.url", a.URL, maxURLLength),
		validator.ValidURLWithScheme("parameters.url", a.URL, "http", "https"),
		validator.InList("parameters.method", a.Method, webhookMethods),
		validator.MaxLenString("parameters.payload", a.Payload, maxPayloadLength),
	}
}

// RunTool opens the tool registered under ToolSlug.
type RunTool struct {
	ToolSlug string `json:"toolSlug" bson:"tool_slug"`
}

func (RunTool) Type() ActionType { return ActionRunTool }

func (a RunTool) rules() []validator.Rule {
	return []validator.Rule{validator.RequiredString("parameters.toolSlug", a.ToolSlug)}
}

type CopyText struct {
	Text string `json:"text" bson:"text"`
}

func (CopyText) Type() ActionType { return ActionCopyText }

func (a CopyText) rules() []validator.Rule {
	return []validator.Rule{
		validator.RequiredString("parameters.text", a.Text),
		validator.MaxLenString("parameters.text", a.Text, maxTextLength),
	}
}

// normalize trims inputs and fills defaults.
func normalize(a Action) Action {
	switch v := a.(type) {
	case OpenURL:
		v.URL = sanitizer.Trim(v.URL)
		return v
	case Webhook:
		v.URL = sanitizer.Trim(v.URL)
		v.Method = sanitizer.Token(v.Method)
		if v.Method == "" {
			v.Method = http.MethodPost
		}
		return v
	case RunTool:
		v.ToolSlug = sanitizer.Trim(v.ToolSlug)
		return v
	default:
		return a
	}
}

// NewAction returns the zero value of the action for kind.
func NewAction(kind ActionType) (Action, error) {
	switch kind {
	case ActionOpenURL:
		return OpenURL{}, nil
	case ActionWebhook:
		return Webhook{}, nil
	case ActionRunTool:
		return RunTool{}, nil
	case ActionCopyText:
		return CopyText{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownActionType, kind)
	}
}

// DecodeAction parses JSON parameters for kind. Unknown kinds and malformed
// parameters are reported as validation errors.
func DecodeAction(kind string, params json.RawMessage) (Action, error) {
	a, err := NewAction(ActionType(kind))
	if err != nil {
		return nil, errors.Join(err, validator.Fail("actionType", fmt.Sprintf("must be one of: %v", ActionTypes)))
	}

	if len(bytes.TrimSpace(params)) == 0 || bytes.Equal(bytes.TrimSpace(params), []byte("null")) {
		params = json.RawMessage("{}")
	}

	dec := json.NewDecoder(bytes.NewReader(params))
	dec.DisallowUnknownFields()

	switch v := a.(type) {
	case OpenURL:
		err = dec.Decode(&v)
		a = v
	case Webhook:
		err = dec.Decode(&v)
		a = v
	case RunTool:
		err = dec.Decode(&v)
		a = v
	case CopyText:
		err = dec.Decode(&v)
		a = v
	}
	if err != nil {
		return nil, errors.Join(ErrInvalidParameters, validator.Fail("parameters", err.Error()))
	}
	return a, nil
}
