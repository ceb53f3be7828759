package services

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/summitcrest/realty/internal/domain"
	"github.com/summitcrest/realty/internal/domain/models"
	"github.com/summitcrest/realty/pkg/errors"
)

type loiFixture struct {
	svc       *LOIService
	lois      *memLOIRepo
	documents *memDocumentRepo
	content   *MockContentSource
	events    *recordingPublisher
	investor  *models.Investor
}

func newLOIFixture(lois ...*models.LetterOfIntent) *loiFixture {
	investor := &models.Investor{
		ID:                  "inv-1",
		Name:                "Dana Park",
		Email:               "dana@example.com",
		AccreditationStatus: models.AccreditationVerified,
	}
	f := &loiFixture{
		lois:      newMemLOIRepo(lois...),
		documents: newMemDocumentRepo(),
		content:   new(MockContentSource),
		events:    &recordingPublisher{},
		investor:  investor,
	}
	f.svc = NewLOIService(f.lois, newMemInvestorRepo(investor), f.documents, f.content, f.events, "Summitcrest Realty")
	f.svc.now = fixedClock
	return f
}

func openProspectus() *models.Prospectus {
	return &models.Prospectus{
		ID:                "prosp-1",
		Title:             "Harbor Point Multifamily",
		Slug:              "harbor-point",
		AssetClass:        "multifamily",
		MinimumInvestment: 50_000,
		Status:            models.ProspectusOpen,
	}
}

func validLOIInput() LOIInput {
	return LOIInput{ProspectusID: "harbor-point", Amount: 100_000, SignatureName: "Dana Park"}
}

func TestLOIService_Submit(t *testing.T) {
	f := newLOIFixture()
	f.content.On("GetProspectus", mock.Anything, "harbor-point").Return(openProspectus(), nil)

	loi, err := f.svc.Submit(context.Background(), f.investor, validLOIInput(), "203.0.113.7")
	require.NoError(t, err)

	assert.Equal(t, "prosp-1", loi.ProspectusID)
	assert.Equal(t, "Harbor Point Multifamily", loi.ProspectusTitle)
	assert.Equal(t, models.LOIStatusSubmitted, loi.Status)
	assert.Equal(t, fixedNow, loi.SignedAt)
	assert.Equal(t, "203.0.113.7", loi.SignerIP)
	assert.Len(t, f.lois.lois, 1)
	assert.Equal(t, []domain.EventType{domain.EventLOISubmitted}, f.events.types())
}

func TestLOIService_SubmitRejections(t *testing.T) {
	closed := openProspectus()
	closed.Status = models.ProspectusClosed

	tests := []struct {
		name       string
		prospectus *models.Prospectus
		mutate     func(*LOIInput)
		status     int
	}{
		{"closed prospectus", closed, nil, 400},
		{"zero amount", openProspectus(), func(in *LOIInput) { in.Amount = 0 }, 400},
		{"below minimum", openProspectus(), func(in *LOIInput) { in.Amount = 10_000 }, 400},
		{"too large", openProspectus(), func(in *LOIInput) { in.Amount = 2_000_000_000 }, 400},
		{"missing signature", openProspectus(), func(in *LOIInput) { in.SignatureName = " " }, 400},
		{"long signature", openProspectus(), func(in *LOIInput) { in.SignatureName = strings.Repeat("D", 201) }, 400},
		{"long prospectus id", openProspectus(), func(in *LOIInput) { in.ProspectusID = strings.Repeat("p", 129) }, 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newLOIFixture()
			f.content.On("GetProspectus", mock.Anything, "harbor-point").Return(tt.prospectus, nil)
			in := validLOIInput()
			if tt.mutate != nil {
				tt.mutate(&in)
			}

			_, err := f.svc.Submit(context.Background(), f.investor, in, "")
			require.Error(t, err)
			assert.Equal(t, tt.status, errors.GetHTTPStatus(err))
			assert.Empty(t, f.lois.lois)
		})
	}
}

func TestLOIService_SubmitUnknownProspectus(t *testing.T) {
	f := newLOIFixture()
	f.content.On("GetProspectus", mock.Anything, "harbor-point").Return(nil, errors.NewNotFoundError("prospectus", "harbor-point"))

	_, err := f.svc.Submit(context.Background(), f.investor, validLOIInput(), "")
	assert.True(t, errors.IsNotFound(err))
}

func TestLOIService_SubmitDuplicate(t *testing.T) {
	f := newLOIFixture(&models.LetterOfIntent{
		ID: "loi-0", InvestorID: "inv-1", ProspectusID: "prosp-1", Status: models.LOIStatusReview,
	})
	f.content.On("GetProspectus", mock.Anything, "harbor-point").Return(openProspectus(), nil)

	_, err := f.svc.Submit(context.Background(), f.investor, validLOIInput(), "")
	assert.True(t, errors.IsConflict(err))
	assert.Len(t, f.lois.lois, 1)
}

func TestLOIService_SubmitAfterRejectionAllowed(t *testing.T) {
	f := newLOIFixture(&models.LetterOfIntent{
		ID: "loi-0", InvestorID: "inv-1", ProspectusID: "prosp-1", Status: models.LOIStatusRejected,
	})
	f.content.On("GetProspectus", mock.Anything, "harbor-point").Return(openProspectus(), nil)

	_, err := f.svc.Submit(context.Background(), f.investor, validLOIInput(), "")
	require.NoError(t, err)
	assert.Len(t, f.lois.lois, 2)
}

func TestLOIService_SubmitEligibility(t *testing.T) {
	t.Run("Rule passes", func(t *testing.T) {
		f := newLOIFixture()
		p := openProspectus()
		p.Eligibility = `investor.accredited && amount >= prospectus.minimumInvestment`
		f.content.On("GetProspectus", mock.Anything, "harbor-point").Return(p, nil)

		_, err := f.svc.Submit(context.Background(), f.investor, validLOIInput(), "")
		require.NoError(t, err)
	})

	t.Run("Rule fails", func(t *testing.T) {
		f := newLOIFixture()
		f.investor.AccreditationStatus = models.AccreditationPending
		p := openProspectus()
		p.Eligibility = `investor.accredited`
		f.content.On("GetProspectus", mock.Anything, "harbor-point").Return(p, nil)

		_, err := f.svc.Submit(context.Background(), f.investor, validLOIInput(), "")
		assert.True(t, errors.IsPermission(err))
	})

	t.Run("Rule sees uploaded documents", func(t *testing.T) {
		f := newLOIFixture()
		f.documents.docs["doc-1"] = &models.InvestorDocument{ID: "doc-1", InvestorID: "inv-1", Kind: models.DocumentAccreditation}
		p := openProspectus()
		p.Eligibility = `"accreditation" in investor.documents`
		f.content.On("GetProspectus", mock.Anything, "harbor-point").Return(p, nil)

		_, err := f.svc.Submit(context.Background(), f.investor, validLOIInput(), "")
		require.NoError(t, err)
	})

	t.Run("Broken rule", func(t *testing.T) {
		f := newLOIFixture()
		p := openProspectus()
		p.Eligibility = `amount >=`
		f.content.On("GetProspectus", mock.Anything, "harbor-point").Return(p, nil)

		_, err := f.svc.Submit(context.Background(), f.investor, validLOIInput(), "")
		require.Error(t, err)
		assert.Equal(t, 500, errors.GetHTTPStatus(err))
	})
}

func TestLOIService_GetOwnership(t *testing.T) {
	f := newLOIFixture(&models.LetterOfIntent{ID: "loi-1", InvestorID: "inv-2", Status: models.LOIStatusSubmitted})
	ctx := context.Background()

	_, err := f.svc.Get(ctx, f.investor, "loi-1")
	assert.True(t, errors.IsPermission(err))

	_, err = f.svc.Get(ctx, f.investor, "missing")
	assert.True(t, errors.IsNotFound(err))

	loi, err := f.svc.GetForAdmin(ctx, "loi-1")
	require.NoError(t, err)
	assert.Equal(t, "inv-2", loi.InvestorID)
}

func TestLOIService_Transition(t *testing.T) {
	f := newLOIFixture(&models.LetterOfIntent{ID: "loi-1", InvestorID: "inv-1", Status: models.LOIStatusSubmitted})
	ctx := context.Background()

	loi, err := f.svc.Transition(ctx, "loi-1", domain.ActionStartReview, "admin")
	require.NoError(t, err)
	assert.Equal(t, models.LOIStatusReview, loi.Status)
	assert.Equal(t, "admin", loi.ReviewedBy)
	assert.Equal(t, []domain.LOIAction{domain.ActionApprove, domain.ActionReject}, f.svc.ValidActions(loi))

	loi, err = f.svc.Transition(ctx, "loi-1", domain.ActionApprove, "admin")
	require.NoError(t, err)
	assert.Equal(t, models.LOIStatusApproved, loi.Status)

	_, err = f.svc.Transition(ctx, "loi-1", domain.ActionReject, "admin")
	assert.True(t, errors.IsConflict(err))
	assert.Empty(t, f.svc.ValidActions(loi))

	_, err = f.svc.Transition(ctx, "loi-1", domain.ActionReject, strings.Repeat("r", 256))
	assert.True(t, errors.IsValidation(err))

	assert.Equal(t, []domain.EventType{domain.EventLOIStatusChanged, domain.EventLOIStatusChanged}, f.events.types())
}

func TestLOIService_Countersign(t *testing.T) {
	f := newLOIFixture(
		&models.LetterOfIntent{ID: "loi-approved", InvestorID: "inv-1", Status: models.LOIStatusApproved},
		&models.LetterOfIntent{ID: "loi-review", InvestorID: "inv-1", Status: models.LOIStatusReview},
	)
	ctx := context.Background()

	_, err := f.svc.Countersign(ctx, "loi-approved", "")
	assert.True(t, errors.IsValidation(err))

	_, err = f.svc.Countersign(ctx, "loi-approved", strings.Repeat("M", 256))
	assert.True(t, errors.IsValidation(err))

	_, err = f.svc.Countersign(ctx, "loi-review", "Morgan Lee")
	assert.True(t, errors.IsConflict(err))

	loi, err := f.svc.Countersign(ctx, "loi-approved", "Morgan Lee")
	require.NoError(t, err)
	assert.True(t, loi.IsCountersigned())
	assert.Equal(t, "Morgan Lee", loi.CountersignedBy)

	_, err = f.svc.Countersign(ctx, "loi-approved", "Morgan Lee")
	assert.True(t, errors.IsConflict(err))
	assert.Equal(t, []domain.EventType{domain.EventLOICountersigned}, f.events.types())
}

func TestLOIService_RenderPDF(t *testing.T) {
	signed := fixedNow.Add(-48 * time.Hour)
	loi := &models.LetterOfIntent{
		ID: "loi-1", InvestorID: "inv-1", ProspectusTitle: "Harbor Point Multifamily",
		Amount: 250_000, Status: models.LOIStatusApproved, SignatureName: "Dana Park", SignedAt: signed,
	}
	f := newLOIFixture(loi)

	var buf bytes.Buffer
	require.NoError(t, f.svc.RenderPDF(context.Background(), loi, &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestLOIService_ProspectusPDF(t *testing.T) {
	f := newLOIFixture()
	p := openProspectus()
	p.Highlights = []string{"Stabilized occupancy"}
	f.content.On("GetProspectus", mock.Anything, "harbor-point").Return(p, nil)

	var buf bytes.Buffer
	require.NoError(t, f.svc.ProspectusPDF(context.Background(), "harbor-point", &buf))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}
