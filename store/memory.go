package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"phishguard/models"
)

// MemoryStore keeps everything in process-local slices. It exists for
// development and tests, and must mirror the relational backend's
// semantics exactly.
//
// Every operation runs under one store-wide mutex, so a read-modify-write
// such as a status transition is a single non-preemptible unit of work.
// The original single-threaded host got this for free from its event
// loop; under Go's parallel request handling the lock is what keeps the
// draft->active guard from losing updates.
type MemoryStore struct {
	mu sync.Mutex

	campaigns    []models.Campaign
	recipients   []models.Recipient
	events       []models.CampaignEvent
	templates    []models.EmailTemplate
	landingPages []models.LandingPage
}

// NewMemoryStore returns an empty in-memory store. Construct it once at
// startup and pass it down; state lives until Reset or process exit.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Reset clears all containers. Test harness use only.
func (s *MemoryStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.campaigns = nil
	s.recipients = nil
	s.events = nil
	s.templates = nil
	s.landingPages = nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

// ---------------------------------------------------------------------
// Campaigns
// ---------------------------------------------------------------------

func (s *MemoryStore) ListCampaigns(ctx context.Context) ([]models.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Campaign, len(s.campaigns))
	copy(out, s.campaigns)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryStore) GetCampaign(ctx context.Context, id string) (*models.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c := s.findCampaign(id); c != nil {
		out := *c
		return &out, nil
	}
	return nil, nil
}

func (s *MemoryStore) CreateCampaign(ctx context.Context, c *models.Campaign) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.campaigns = append(s.campaigns, *c)
	return nil
}

func (s *MemoryStore) UpdateCampaign(ctx context.Context, id string, patch models.CampaignPatch) (*models.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.findCampaign(id)
	if c == nil {
		return nil, nil
	}
	if patch.Empty() {
		out := *c
		return &out, nil
	}
	if c.Status != models.CampaignStatusDraft {
		return nil, nil
	}

	if patch.Name != nil {
		c.Name = *patch.Name
	}
	if patch.Description != nil {
		c.Description = *patch.Description
	}
	if patch.TargetCount != nil {
		c.TargetCount = *patch.TargetCount
	}
	c.UpdatedAt = time.Now()

	out := *c
	return &out, nil
}

func (s *MemoryStore) TransitionCampaign(ctx context.Context, id string, from []string, to string) (*models.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.findCampaign(id)
	if c == nil {
		return nil, nil
	}
	eligible := false
	for _, f := range from {
		if c.Status == f {
			eligible = true
			break
		}
	}
	if !eligible {
		// Same signal as an unknown id: the caller cannot tell a
		// missing campaign from one in the wrong state.
		return nil, nil
	}

	c.Status = to
	c.UpdatedAt = time.Now()

	out := *c
	return &out, nil
}

func (s *MemoryStore) DeleteCampaign(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i := range s.campaigns {
		if s.campaigns[i].ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return false, nil
	}

	// Cascade: the campaign exclusively owns its events and roster.
	events := s.events[:0]
	for _, e := range s.events {
		if e.CampaignID != id {
			events = append(events, e)
		}
	}
	s.events = events

	recipients := s.recipients[:0]
	for _, r := range s.recipients {
		if r.CampaignID != id {
			recipients = append(recipients, r)
		}
	}
	s.recipients = recipients

	s.campaigns = append(s.campaigns[:idx], s.campaigns[idx+1:]...)
	return true, nil
}

func (s *MemoryStore) findCampaign(id string) *models.Campaign {
	for i := range s.campaigns {
		if s.campaigns[i].ID == id {
			return &s.campaigns[i]
		}
	}
	return nil
}

// ---------------------------------------------------------------------
// Recipients
// ---------------------------------------------------------------------

func (s *MemoryStore) ListRecipientsByCampaign(ctx context.Context, campaignID string) ([]models.Recipient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.Recipient
	for _, r := range s.recipients {
		if r.CampaignID == campaignID {
			out = append(out, r)
		}
	}
	// Roster order: oldest first. Stable sort keeps insertion order for
	// bulk batches sharing one timestamp.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryStore) GetRecipientByToken(ctx context.Context, token string) (*models.Recipient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r := s.findRecipientByToken(token); r != nil {
		out := *r
		return &out, nil
	}
	return nil, nil
}

func (s *MemoryStore) CreateRecipient(ctx context.Context, r *models.Recipient) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.recipients = append(s.recipients, *r)
	return nil
}

// CreateRecipients appends sequentially. In-memory appends cannot fail,
// which is the only reason this loop never leaves a partial batch; the
// relational backend wraps the same loop in a transaction.
func (s *MemoryStore) CreateRecipients(ctx context.Context, recipients []*models.Recipient) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range recipients {
		s.recipients = append(s.recipients, *r)
	}
	return len(recipients), nil
}

func (s *MemoryStore) UpdateRecipientStatus(ctx context.Context, token, status string) (*models.Recipient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.findRecipientByToken(token)
	if r == nil {
		return nil, nil
	}

	now := time.Now()
	r.Status = status
	r.UpdatedAt = now
	switch status {
	case models.RecipientStatusSent:
		r.SentAt = &now
	case models.RecipientStatusClicked:
		r.ClickedAt = &now
	case models.RecipientStatusSubmitted:
		r.SubmittedAt = &now
	}

	out := *r
	return &out, nil
}

func (s *MemoryStore) DeleteRecipient(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.recipients {
		if s.recipients[i].ID == id {
			// Events referencing this recipient's token stay behind.
			s.recipients = append(s.recipients[:i], s.recipients[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) findRecipientByToken(token string) *models.Recipient {
	for i := range s.recipients {
		if s.recipients[i].Token == token {
			return &s.recipients[i]
		}
	}
	return nil
}

// ---------------------------------------------------------------------
// Events
// ---------------------------------------------------------------------

func (s *MemoryStore) ListEventsByCampaign(ctx context.Context, campaignID string) ([]models.CampaignEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []models.CampaignEvent
	for _, e := range s.events {
		if e.CampaignID == campaignID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryStore) CreateEvent(ctx context.Context, e *models.CampaignEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.events = append(s.events, *e)
	return nil
}

func (s *MemoryStore) CountDistinctTokens(ctx context.Context, campaignID, eventType string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.countDistinctTokens(campaignID, eventType), nil
}

func (s *MemoryStore) countDistinctTokens(campaignID, eventType string) int {
	tokens := make(map[string]struct{})
	for _, e := range s.events {
		if e.Type != eventType {
			continue
		}
		if campaignID != "" && e.CampaignID != campaignID {
			continue
		}
		tokens[e.RecipientToken] = struct{}{}
	}
	return len(tokens)
}

// ---------------------------------------------------------------------
// Email templates
// ---------------------------------------------------------------------

func (s *MemoryStore) ListTemplates(ctx context.Context) ([]models.EmailTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.EmailTemplate, len(s.templates))
	copy(out, s.templates)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryStore) GetTemplate(ctx context.Context, id string) (*models.EmailTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.templates {
		if s.templates[i].ID == id {
			out := s.templates[i]
			return &out, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) CreateTemplate(ctx context.Context, t *models.EmailTemplate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.IsDefault {
		for i := range s.templates {
			s.templates[i].IsDefault = false
		}
	}
	s.templates = append(s.templates, *t)
	return nil
}

func (s *MemoryStore) UpdateTemplate(ctx context.Context, id string, patch models.TemplatePatch) (*models.EmailTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var t *models.EmailTemplate
	for i := range s.templates {
		if s.templates[i].ID == id {
			t = &s.templates[i]
			break
		}
	}
	if t == nil {
		return nil, nil
	}
	if patch.Empty() {
		out := *t
		return &out, nil
	}

	if patch.IsDefault != nil && *patch.IsDefault {
		for i := range s.templates {
			s.templates[i].IsDefault = false
		}
	}
	if patch.Name != nil {
		t.Name = *patch.Name
	}
	if patch.Subject != nil {
		t.Subject = *patch.Subject
	}
	if patch.Body != nil {
		t.Body = *patch.Body
	}
	if patch.IsDefault != nil {
		t.IsDefault = *patch.IsDefault
	}
	t.UpdatedAt = time.Now()

	out := *t
	return &out, nil
}

func (s *MemoryStore) DeleteTemplate(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.templates {
		if s.templates[i].ID == id {
			s.templates = append(s.templates[:i], s.templates[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// ---------------------------------------------------------------------
// Landing pages
// ---------------------------------------------------------------------

func (s *MemoryStore) ListLandingPages(ctx context.Context) ([]models.LandingPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.LandingPage, len(s.landingPages))
	copy(out, s.landingPages)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryStore) GetLandingPage(ctx context.Context, id string) (*models.LandingPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.landingPages {
		if s.landingPages[i].ID == id {
			out := s.landingPages[i]
			return &out, nil
		}
	}
	return nil, nil
}

func (s *MemoryStore) CreateLandingPage(ctx context.Context, p *models.LandingPage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.IsDefault {
		for i := range s.landingPages {
			s.landingPages[i].IsDefault = false
		}
	}
	s.landingPages = append(s.landingPages, *p)
	return nil
}

func (s *MemoryStore) UpdateLandingPage(ctx context.Context, id string, patch models.LandingPagePatch) (*models.LandingPage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var p *models.LandingPage
	for i := range s.landingPages {
		if s.landingPages[i].ID == id {
			p = &s.landingPages[i]
			break
		}
	}
	if p == nil {
		return nil, nil
	}
	if patch.Empty() {
		out := *p
		return &out, nil
	}

	if patch.IsDefault != nil && *patch.IsDefault {
		for i := range s.landingPages {
			s.landingPages[i].IsDefault = false
		}
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.HTML != nil {
		p.HTML = *patch.HTML
	}
	if patch.IsDefault != nil {
		p.IsDefault = *patch.IsDefault
	}
	p.UpdatedAt = time.Now()

	out := *p
	return &out, nil
}

func (s *MemoryStore) DeleteLandingPage(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.landingPages {
		if s.landingPages[i].ID == id {
			s.landingPages = append(s.landingPages[:i], s.landingPages[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// ---------------------------------------------------------------------
// Dashboard
// ---------------------------------------------------------------------

func (s *MemoryStore) DashboardCounts(ctx context.Context) (DashboardCounts, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := DashboardCounts{
		TotalCampaigns:    len(s.campaigns),
		TotalRecipients:   len(s.recipients),
		DistinctClicked:   s.countDistinctTokens("", models.EventTypeClicked),
		DistinctSubmitted: s.countDistinctTokens("", models.EventTypeSubmitted),
	}
	for _, c := range s.campaigns {
		switch c.Status {
		case models.CampaignStatusActive:
			counts.ActiveCampaigns++
		case models.CampaignStatusCompleted:
			counts.CompletedCampaigns++
		case models.CampaignStatusDraft:
			counts.DraftCampaigns++
		case models.CampaignStatusPaused:
			counts.PausedCampaigns++
		}
	}
	for _, r := range s.recipients {
		if r.Status != models.RecipientStatusPending {
			counts.SentRecipients++
		}
	}
	return counts, nil
}

var _ Store = (*MemoryStore)(nil)
