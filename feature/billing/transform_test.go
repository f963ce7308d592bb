package billing

import (
	"testing"
	"time"

	"patient-sync/core/reconcile"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePatient(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		patient, err := NormalizePatient(map[string]any{
			"firstName":   "Rick",
			"lastName":    "Deckard",
			"dateOfBirth": "2094-02-01",
			"externalId":  "5",
		})

		assert.NoError(t, err)
		assert.Equal(t, "Rick", patient.FirstName)
		assert.Equal(t, "Deckard", patient.LastName)
		assert.Equal(t, "5", patient.ExternalID)
		assert.Equal(t, time.Date(2094, 2, 1, 0, 0, 0, 0, time.UTC), patient.DateOfBirth)
	})

	t.Run("Middle Name Optional", func(t *testing.T) {
		patient, err := NormalizePatient(map[string]any{
			"firstName":   "Rachael",
			"lastName":    "Tyrell",
			"middleName":  "R",
			"dateOfBirth": "2093-05-10",
			"externalId":  "6",
		})

		assert.NoError(t, err)
		assert.Equal(t, "R", patient.MiddleName)
	})

	tests := []struct {
		name      string
		data      map[string]any
		wantField string
		wantID    string
	}{
		{
			name:      "Missing First Name",
			data:      map[string]any{"lastName": "Deckard", "dateOfBirth": "2094-02-01", "externalId": "5"},
			wantField: "firstName",
			wantID:    "5",
		},
		{
			name:      "First Name Wrong Type",
			data:      map[string]any{"firstName": 42, "lastName": "Deckard", "dateOfBirth": "2094-02-01", "externalId": "5"},
			wantField: "firstName",
			wantID:    "5",
		},
		{
			name:      "Missing Last Name",
			data:      map[string]any{"firstName": "Rick", "dateOfBirth": "2094-02-01", "externalId": "5"},
			wantField: "lastName",
			wantID:    "5",
		},
		{
			name:      "Unparseable Date",
			data:      map[string]any{"firstName": "Rick", "lastName": "Deckard", "dateOfBirth": "01/02/2094", "externalId": "5"},
			wantField: "dateOfBirth",
			wantID:    "5",
		},
		{
			name:      "Impossible Date",
			data:      map[string]any{"firstName": "Rick", "lastName": "Deckard", "dateOfBirth": "2094-13-40", "externalId": "5"},
			wantField: "dateOfBirth",
			wantID:    "5",
		},
		{
			name:      "Missing External ID",
			data:      map[string]any{"firstName": "Rick", "lastName": "Deckard", "dateOfBirth": "2094-02-01"},
			wantField: "externalId",
			wantID:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			patient, err := NormalizePatient(tt.data)
			assert.Nil(t, patient)

			var malformed *reconcile.MalformedRecordError
			assert.ErrorAs(t, err, &malformed)
			assert.Equal(t, tt.wantField, malformed.Field)
			assert.Equal(t, tt.wantID, malformed.ExternalID)
		})
	}
}

func TestNormalizePayment(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		payment, err := NormalizePayment(map[string]any{
			"amount":     4.46,
			"patientId":  "1",
			"externalId": "501",
		})

		assert.NoError(t, err)
		assert.Equal(t, 4.46, payment.Amount)
		assert.Equal(t, 1, payment.PatientID)
		assert.Equal(t, "501", payment.ExternalID)
	})

	t.Run("Numeric Patient ID", func(t *testing.T) {
		payment, err := NormalizePayment(map[string]any{
			"amount":     10.0,
			"patientId":  float64(3), // encoding/json decodes numbers as float64
			"externalId": "502",
		})

		assert.NoError(t, err)
		assert.Equal(t, 3, payment.PatientID)
	})

	tests := []struct {
		name      string
		data      map[string]any
		wantField string
		wantID    string
	}{
		{
			name:      "Missing Amount",
			data:      map[string]any{"patientId": "1", "externalId": "501"},
			wantField: "amount",
			wantID:    "501",
		},
		{
			name:      "Amount Not Numeric",
			data:      map[string]any{"amount": "lots", "patientId": "1", "externalId": "501"},
			wantField: "amount",
			wantID:    "501",
		},
		{
			name:      "Patient ID Not An Integer",
			data:      map[string]any{"amount": 4.46, "patientId": "abc", "externalId": "501"},
			wantField: "patientId",
			wantID:    "501",
		},
		{
			name:      "Missing External ID",
			data:      map[string]any{"amount": 4.46, "patientId": "1"},
			wantField: "externalId",
			wantID:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payment, err := NormalizePayment(tt.data)
			assert.Nil(t, payment)

			var malformed *reconcile.MalformedRecordError
			assert.ErrorAs(t, err, &malformed)
			assert.Equal(t, tt.wantField, malformed.Field)
			assert.Equal(t, tt.wantID, malformed.ExternalID)
		})
	}
}
