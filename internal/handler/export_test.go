package handler_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-share/backend/internal/domain"
	"github.com/pkordes/trip-share/backend/internal/handler"
)

// exportRowFixture returns a fully-populated domain.ExportRow for testing.
func exportRowFixture() domain.ExportRow {
	bookedAt := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	return domain.ExportRow{
		TripID:            uuid.New().String(),
		StartLocation:     "Köln",
		EndLocation:       "Bonn",
		TripDate:          "2024-06-30",
		AvailableSeats:    2,
		PassengerUsername: "bob",
		PassengerName:     "Bob",
		PassengerEmail:    "bob@example.com",
		BookedAt:          &bookedAt,
	}
}

func exportHandler(rows []domain.ExportRow, err error) (http.Handler, *uuid.UUID) {
	var gotOwner uuid.UUID
	svc := &mockExportServicer{
		export: func(_ context.Context, ownerID uuid.UUID) ([]domain.ExportRow, error) {
			gotOwner = ownerID
			return rows, err
		},
	}
	return newHTTPHandler(services{export: svc}), &gotOwner
}

// ---- JSON ------------------------------------------------------------------

func TestGetExport_DefaultJSON_EmptyResult(t *testing.T) {
	h, _ := exportHandler([]domain.ExportRow{}, nil)

	rec := do(t, h, http.MethodGet, "/trips/export", uuid.New(), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	body := rec.Body.String() // decode drains rec.Body
	rows := decode[[]handler.ExportRow](t, rec)
	assert.Empty(t, rows)
	assert.Equal(t, "[]\n", body)
}

func TestGetExport_JSON_MapsFields(t *testing.T) {
	owner := uuid.New()
	fixture := exportRowFixture()
	empty := domain.ExportRow{TripID: uuid.New().String(), StartLocation: "Ulm", TripDate: "2024-07-01", AvailableSeats: 4}
	h, gotOwner := exportHandler([]domain.ExportRow{fixture, empty}, nil)

	rec := do(t, h, http.MethodGet, "/trips/export?format=json", owner, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, owner, *gotOwner)
	rows := decode[[]handler.ExportRow](t, rec)
	require.Len(t, rows, 2)

	assert.Equal(t, fixture.TripID, rows[0].TripID.String())
	assert.Equal(t, "2024-06-30", rows[0].TripDate.String())
	require.NotNil(t, rows[0].PassengerUsername)
	assert.Equal(t, "bob", *rows[0].PassengerUsername)
	require.NotNil(t, rows[0].BookedAt)

	assert.Nil(t, rows[1].PassengerUsername)
	assert.Nil(t, rows[1].EndLocation)
	assert.Nil(t, rows[1].BookedAt)
}

// ---- CSV -------------------------------------------------------------------

func TestGetExport_CSV(t *testing.T) {
	fixture := exportRowFixture()
	h, _ := exportHandler([]domain.ExportRow{fixture}, nil)

	rec := do(t, h, http.MethodGet, "/trips/export?format=csv", uuid.New(), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "trips.csv")

	records, err := csv.NewReader(strings.NewReader(rec.Body.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "trip_id", records[0][0])
	assert.Equal(t, []string{
		fixture.TripID, "Köln", "Bonn", "2024-06-30", "2",
		"bob", "Bob", "bob@example.com", "2024-06-15T12:00:00Z",
	}, records[1])
}

func TestGetExport_CSV_EmptyTripHasBlankPassengerColumns(t *testing.T) {
	row := domain.ExportRow{TripID: uuid.New().String(), StartLocation: "Ulm", TripDate: "2024-07-01"}
	h, _ := exportHandler([]domain.ExportRow{row}, nil)

	rec := do(t, h, http.MethodGet, "/trips/export?format=csv", uuid.New(), nil)

	records, err := csv.NewReader(strings.NewReader(rec.Body.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"", "", "", ""}, records[1][5:])
}

// ---- PDF -------------------------------------------------------------------

func TestGetExport_PDF(t *testing.T) {
	empty := domain.ExportRow{TripID: uuid.New().String(), StartLocation: "Ulm", TripDate: "2024-07-01", AvailableSeats: 4}
	h, _ := exportHandler([]domain.ExportRow{exportRowFixture(), empty}, nil)

	rec := do(t, h, http.MethodGet, "/trips/export?format=pdf", uuid.New(), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "trips.pdf")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))
}

func TestGetExport_PDF_NoTrips(t *testing.T) {
	h, _ := exportHandler(nil, nil)

	rec := do(t, h, http.MethodGet, "/trips/export?format=pdf", uuid.New(), nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF-")))
}

// ---- errors ----------------------------------------------------------------

func TestGetExport_400_UnknownFormat(t *testing.T) {
	h, _ := exportHandler(nil, nil)

	rec := do(t, h, http.MethodGet, "/trips/export?format=xml", uuid.New(), nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetExport_500_ServiceError(t *testing.T) {
	h, _ := exportHandler(nil, fmt.Errorf("db down"))

	rec := do(t, h, http.MethodGet, "/trips/export", uuid.New(), nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
