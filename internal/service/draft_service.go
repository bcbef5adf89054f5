package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"invitame/internal/domains"
	"invitame/internal/theme"
	"invitame/internal/wizard"
)

const defaultPlanCode = "basic"

var ErrNoDraft = errors.New("no draft for session")

// DraftStore keeps one wizard draft per browser session. Writes are last
// write wins; entries expire after the store's TTL.
type DraftStore interface {
	Get(ctx context.Context, sessionID string) (domains.Draft, bool, error)
	Set(ctx context.Context, sessionID string, d domains.Draft) error
	Merge(ctx context.Context, sessionID string, patch domains.DraftPatch) (domains.Draft, error)
	Delete(ctx context.Context, sessionID string) error
}

// WizardView is one rendered wizard position.
type WizardView struct {
	Draft     domains.Draft      `json:"draft"`
	Plan      domains.Plan       `json:"plan"`
	Steps     []wizard.Step      `json:"steps"`
	Current   int                `json:"current"`
	Step      wizard.Step        `json:"step"`
	Templates []domains.Template `json:"templates,omitempty"`
}

type Preview struct {
	Draft        domains.Draft `json:"draft"`
	TemplateKey  string        `json:"template_key"`
	Theme        theme.Theme   `json:"theme"`
	SectionOrder []string      `json:"section_order"`
}

type DraftService struct {
	drafts    DraftStore
	checkout  *CheckoutService
	templates *TemplateService
	loc       *time.Location
	now       func() time.Time
}

// NewDraftService reads wizard dates and times as wall clock in loc. A nil
// loc means UTC.
func NewDraftService(drafts DraftStore, checkout *CheckoutService, templates *TemplateService, loc *time.Location) *DraftService {
	if loc == nil {
		loc = time.UTC
	}
	return &DraftService{
		drafts:    drafts,
		checkout:  checkout,
		templates: templates,
		loc:       loc,
		now:       time.Now,
	}
}

// Start opens the wizard for a plan. An existing draft for the same plan is
// kept; switching plans starts over with the first visible template selected.
func (s *DraftService) Start(ctx context.Context, sessionID, planCode string) (WizardView, error) {
	if planCode == "" {
		planCode = defaultPlanCode
	}
	plan, err := s.checkout.Plan(ctx, planCode)
	if err != nil {
		return WizardView{}, err
	}
	templates, err := s.templates.ListFor(ctx, tierOf(plan))
	if err != nil {
		return WizardView{}, err
	}

	draft, ok, err := s.drafts.Get(ctx, sessionID)
	if err != nil {
		return WizardView{}, fmt.Errorf("load draft: %w", err)
	}
	if !ok || draft.PlanCode != plan.Code {
		draft = domains.Draft{PlanCode: plan.Code, TemplateKey: domains.DefaultTemplateKey}
		if len(templates) > 0 {
			draft.TemplateKey = templates[0].Key
		}
		if err := s.drafts.Set(ctx, sessionID, draft); err != nil {
			return WizardView{}, fmt.Errorf("save draft: %w", err)
		}
	}
	return s.view(draft, plan, templates, 1), nil
}

// View returns the wizard at step n, clamped into range.
func (s *DraftService) View(ctx context.Context, sessionID string, n int) (WizardView, error) {
	draft, plan, templates, err := s.load(ctx, sessionID)
	if err != nil {
		return WizardView{}, err
	}
	return s.view(draft, plan, templates, n), nil
}

// Save validates a step submission against the merged draft, persists it and
// advances to the next step. A ValidationError leaves the draft untouched.
func (s *DraftService) Save(ctx context.Context, sessionID string, n int, patch domains.DraftPatch) (WizardView, error) {
	draft, plan, templates, err := s.load(ctx, sessionID)
	if err != nil {
		return WizardView{}, err
	}
	patch.PlanCode = nil
	patch.DateISO = nil

	steps := wizard.ComputeSteps(plan)
	n, step := wizard.StepAt(steps, n)
	candidate := draft.Apply(patch)
	if err := wizard.Validate(step.Key, candidate); err != nil {
		return WizardView{}, err
	}
	if step.Key == wizard.StepTemplate && !slices.ContainsFunc(templates, func(t domains.Template) bool {
		return t.Key == candidate.TemplateKey
	}) {
		return WizardView{}, &wizard.ValidationError{Step: step.Key, Field: "template_key", Message: "not available for this plan"}
	}
	if patch.Date != nil || patch.Time != nil {
		if iso, ok := domains.EventISO(candidate.Date, candidate.Time, s.loc); ok {
			patch.DateISO = &iso
		}
	}

	saved, err := s.drafts.Merge(ctx, sessionID, patch)
	if err != nil {
		return WizardView{}, fmt.Errorf("save draft: %w", err)
	}
	return s.view(saved, plan, templates, n+1), nil
}

// Preview composes the page exactly as materialization would from the
// current draft.
func (s *DraftService) Preview(ctx context.Context, sessionID string) (Preview, error) {
	draft, plan, _, err := s.load(ctx, sessionID)
	if err != nil {
		return Preview{}, err
	}
	meta := draft.Metadata(0, plan.Code, s.now())
	key, composed, err := composeTheme(ctx, s.templates.provider, meta)
	if err != nil {
		return Preview{}, err
	}
	return Preview{
		Draft:        draft,
		TemplateKey:  key,
		Theme:        composed,
		SectionOrder: wizard.SectionOrder(plan, draft.Registry, draft.MusicURL),
	}, nil
}

// Draft returns the session's current draft.
func (s *DraftService) Draft(ctx context.Context, sessionID string) (domains.Draft, error) {
	draft, ok, err := s.drafts.Get(ctx, sessionID)
	if err != nil {
		return domains.Draft{}, fmt.Errorf("load draft: %w", err)
	}
	if !ok {
		return domains.Draft{}, ErrNoDraft
	}
	return draft, nil
}

func (s *DraftService) Clear(ctx context.Context, sessionID string) error {
	return s.drafts.Delete(ctx, sessionID)
}

func (s *DraftService) load(ctx context.Context, sessionID string) (domains.Draft, domains.Plan, []domains.Template, error) {
	draft, err := s.Draft(ctx, sessionID)
	if err != nil {
		return domains.Draft{}, domains.Plan{}, nil, err
	}
	plan, err := s.checkout.Plan(ctx, draft.PlanCode)
	if err != nil {
		return domains.Draft{}, domains.Plan{}, nil, err
	}
	templates, err := s.templates.ListFor(ctx, tierOf(plan))
	if err != nil {
		return domains.Draft{}, domains.Plan{}, nil, err
	}
	return draft, plan, templates, nil
}

func (s *DraftService) view(draft domains.Draft, plan domains.Plan, templates []domains.Template, n int) WizardView {
	steps := wizard.ComputeSteps(plan)
	n, step := wizard.StepAt(steps, n)
	return WizardView{
		Draft:     draft,
		Plan:      plan,
		Steps:     steps,
		Current:   n,
		Step:      step,
		Templates: templates,
	}
}

func tierOf(plan domains.Plan) string {
	if plan.TemplateScope == "" {
		return domains.TierGeneral
	}
	return plan.TemplateScope
}
