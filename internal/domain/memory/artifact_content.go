package memory

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gorm.io/datatypes"
)

// ErrInvalidContent marks artifact content that fails its type's shape rules.
var ErrInvalidContent = errors.New("invalid artifact content")

// Content is the typed payload of an artifact. Each ArtifactType has exactly one variant.
type Content interface {
	ArtifactType() ArtifactType
	Validate() error
}

type SummaryContent struct {
	Text string `json:"text"`
}

type InsightContent struct {
	Text string `json:"text"`
}

type ActionStep struct {
	Description string `json:"description"`
	Done        bool   `json:"done,omitempty"`
}

type ActionPlanContent struct {
	Steps []ActionStep `json:"steps"`
}

type QuestionDraftContent struct {
	Draft string `json:"draft"`
}

type GoalContent struct {
	Description string  `json:"description"`
	Horizon     *string `json:"horizon,omitempty"`
}

func (SummaryContent) ArtifactType() ArtifactType       { return ArtifactSummary }
func (InsightContent) ArtifactType() ArtifactType       { return ArtifactInsight }
func (ActionPlanContent) ArtifactType() ArtifactType    { return ArtifactActionPlan }
func (QuestionDraftContent) ArtifactType() ArtifactType { return ArtifactQuestionDraft }
func (GoalContent) ArtifactType() ArtifactType          { return ArtifactGoal }

func (c SummaryContent) Validate() error {
	return requireText("summary.text", c.Text)
}

func (c InsightContent) Validate() error {
	return requireText("insight.text", c.Text)
}

func (c ActionPlanContent) Validate() error {
	if len(c.Steps) == 0 {
		return fmt.Errorf("%w: action_plan.steps must not be empty", ErrInvalidContent)
	}
	for i, s := range c.Steps {
		if err := requireText(fmt.Sprintf("action_plan.steps[%d].description", i), s.Description); err != nil {
			return err
		}
	}
	return nil
}

func (c QuestionDraftContent) Validate() error {
	return requireText("question_draft.draft", c.Draft)
}

func (c GoalContent) Validate() error {
	return requireText("goal.description", c.Description)
}

func requireText(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return fmt.Errorf("%w: %s is required", ErrInvalidContent, field)
	}
	return nil
}

// DecodeContent parses raw JSON into the variant for t and validates it.
func DecodeContent(t ArtifactType, raw []byte) (Content, error) {
	var c Content
	switch t {
	case ArtifactSummary:
		c = &SummaryContent{}
	case ArtifactInsight:
		c = &InsightContent{}
	case ArtifactActionPlan:
		c = &ActionPlanContent{}
	case ArtifactQuestionDraft:
		c = &QuestionDraftContent{}
	case ArtifactGoal:
		c = &GoalContent{}
	default:
		return nil, fmt.Errorf("%w: unknown artifact type %q", ErrInvalidContent, t)
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: content is required", ErrInvalidContent)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(c); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidContent, t, err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return deref(c), nil
}

// EncodeContent validates c and serializes it for storage.
func EncodeContent(c Content) (datatypes.JSON, error) {
	if c == nil {
		return nil, fmt.Errorf("%w: content is required", ErrInvalidContent)
	}
	c = deref(c)
	if err := c.Validate(); err != nil {
		return nil, err
	}
	b, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

func deref(c Content) Content {
	switch v := c.(type) {
	case *SummaryContent:
		return *v
	case *InsightContent:
		return *v
	case *ActionPlanContent:
		return *v
	case *QuestionDraftContent:
		return *v
	case *GoalContent:
		return *v
	}
	return c
}
