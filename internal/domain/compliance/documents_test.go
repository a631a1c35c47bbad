package compliance_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whizkidefos/employee-management-api/internal/domain/compliance"
	"github.com/whizkidefos/employee-management-api/internal/domain/entity"
)

var now = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func ptr(t time.Time) *time.Time { return &t }

func TestEffectiveStatus_CaducadoIndependienteDelEstadoGuardado(t *testing.T) {
	for _, stored := range []string{entity.DocumentPending, entity.DocumentApproved, entity.DocumentRejected} {
		d := &entity.Document{Status: stored, ExpiryDate: ptr(now.Add(-time.Minute))}
		assert.Equal(t, entity.DocumentExpired, compliance.EffectiveStatus(d, now), stored)
		assert.Equal(t, stored, d.Status, "la derivación no escribe el estado")
	}
}

func TestEffectiveStatus_Idempotente(t *testing.T) {
	d := &entity.Document{Status: entity.DocumentApproved, ExpiryDate: ptr(now.Add(-24 * time.Hour))}
	first := compliance.EffectiveStatus(d, now)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, compliance.EffectiveStatus(d, now))
	}
}

func TestEffectiveStatus_VigenteOSinCaducidad(t *testing.T) {
	vigente := &entity.Document{Status: entity.DocumentApproved, ExpiryDate: ptr(now.Add(time.Hour))}
	assert.Equal(t, entity.DocumentApproved, compliance.EffectiveStatus(vigente, now))

	sinFecha := &entity.Document{Status: entity.DocumentPending}
	assert.Equal(t, entity.DocumentPending, compliance.EffectiveStatus(sinFecha, now))
}

func TestDaysUntilExpiry(t *testing.T) {
	d := &entity.Document{ExpiryDate: ptr(now.Add(72 * time.Hour))}
	days := compliance.DaysUntilExpiry(d, now)
	require.NotNil(t, days)
	assert.Equal(t, 3, *days)

	assert.Nil(t, compliance.DaysUntilExpiry(&entity.Document{}, now))
}

func TestSummary_UsaElMasRecienteYMarcaFaltantes(t *testing.T) {
	docs := []*entity.Document{
		{ID: "old", Type: "Enhanced DBS", Status: entity.DocumentRejected, UploadedAt: now.Add(-48 * time.Hour)},
		{ID: "new", Type: "Enhanced DBS", Status: entity.DocumentApproved, UploadedAt: now.Add(-time.Hour)},
		{ID: "addr", Type: "Proof of Address", Status: entity.DocumentApproved, UploadedAt: now, ExpiryDate: ptr(now.Add(-time.Hour))},
	}

	summary := compliance.Summary(docs, now)
	require.Len(t, summary, len(compliance.Types))

	byType := map[string]compliance.TypeStatus{}
	for _, row := range summary {
		byType[row.Type] = row
	}
	assert.Equal(t, "new", byType["Enhanced DBS"].DocumentID)
	assert.Equal(t, entity.DocumentApproved, byType["Enhanced DBS"].Status)
	assert.Equal(t, entity.DocumentExpired, byType["Proof of Address"].Status)
	assert.Equal(t, compliance.StatusMissing, byType["Right to Work"].Status)
	assert.False(t, compliance.IsCompliant(summary))
}

func TestLookupTypeYRequeridos(t *testing.T) {
	dt, ok := compliance.LookupType("Enhanced DBS")
	require.True(t, ok)
	assert.Equal(t, 36, dt.ValidityMonths)

	_, ok = compliance.LookupType("Passport")
	assert.False(t, ok)

	for _, r := range compliance.RequiredTypes() {
		assert.NotEqual(t, "Training Certificate", r.Name)
	}
}
