// export.go implements GET /trips/export.
// Returns the requester's passenger manifest as a flat table.
// Supports ?format=csv (CSV), ?format=pdf (PDF) or default (JSON).

package handler

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/phpdave11/gofpdf"

	"github.com/pkordes/trip-share/backend/internal/domain"
)

// Export formats accepted by ?format=.
const (
	formatJSON = "json"
	formatCSV  = "csv"
	formatPDF  = "pdf"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"trip_id", "start_location", "end_location", "trip_date", "available_seats",
	"passenger_username", "passenger_name", "passenger_email", "booked_at",
}

// GetExport implements GET /trips/export.
// It returns one row per passenger across every trip the requester owns.
func (s *Server) GetExport(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	var format *string
	if !queryParam(w, r, "format", &format) {
		return
	}
	f := formatJSON
	if format != nil {
		f = *format
	}
	if f != formatJSON && f != formatCSV && f != formatPDF {
		writeJSON(w, http.StatusBadRequest, requestBody(r, "format must be one of json, csv, pdf"))
		return
	}

	rows, err := s.export.Export(r.Context(), userID)
	if err != nil {
		s.writeServiceError(w, r, err, "user not found")
		return
	}

	switch f {
	case formatCSV:
		writeAttachment(w, "text/csv", "trips.csv", buildCSV(rows))
	case formatPDF:
		body, err := buildPDF(rows, time.Now().UTC())
		if err != nil {
			s.writeServiceError(w, r, fmt.Errorf("handler.GetExport: pdf: %w", err), "")
			return
		}
		writeAttachment(w, "application/pdf", "trips.pdf", body)
	default:
		out := make([]ExportRow, 0, len(rows))
		for _, row := range rows {
			out = append(out, domainRowToExportRow(row))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// writeAttachment sends body as a downloadable file.
func writeAttachment(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// buildCSV encodes domain rows as CSV with a header line.
func buildCSV(rows []domain.ExportRow) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	//nolint:errcheck // bytes.Buffer.Write never returns an error.
	w.Write(csvHeaders)
	for _, r := range rows {
		//nolint:errcheck
		w.Write(domainRowToCSVRecord(r))
	}
	w.Flush()
	return buf.Bytes()
}

// buildPDF renders the manifest as an A4 document: one block per trip with
// its passengers listed underneath.
func buildPDF(rows []domain.ExportRow, generatedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Trip Share passenger manifest", true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(0, 10, "Passenger manifest")
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 9)
	pdf.Cell(0, 6, "Generated "+generatedAt.Format("2006-01-02 15:04")+" UTC")
	pdf.Ln(10)

	if len(rows) == 0 {
		pdf.SetFont("Arial", "I", 11)
		pdf.Cell(0, 8, "You have not offered any trips.")
		pdf.Ln(8)
	}

	lastTrip := ""
	for _, r := range rows {
		if r.TripID != lastTrip {
			lastTrip = r.TripID
			pdf.Ln(2)
			pdf.SetFont("Arial", "B", 12)
			route := r.StartLocation
			if r.EndLocation != "" {
				route += " - " + r.EndLocation
			}
			pdf.Cell(0, 7, pdfText(pdf, r.TripDate+"  "+route))
			pdf.Ln(7)
			pdf.SetFont("Arial", "", 10)
			pdf.Cell(0, 6, fmt.Sprintf("Seats left: %d", r.AvailableSeats))
			pdf.Ln(6)
			if !r.HasPassenger() {
				pdf.SetFont("Arial", "I", 10)
				pdf.Cell(0, 6, "No passengers yet.")
				pdf.Ln(6)
				continue
			}
		}
		pdf.SetFont("Arial", "", 10)
		line := r.PassengerUsername
		if r.PassengerName != "" {
			line += " (" + r.PassengerName + ")"
		}
		if r.PassengerEmail != "" {
			line += "  " + r.PassengerEmail
		}
		if r.BookedAt != nil {
			line += "  booked " + r.BookedAt.UTC().Format("2006-01-02")
		}
		pdf.MultiCell(0, 6, pdfText(pdf, "  - "+line), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// pdfText converts UTF-8 to the cp1252 encoding the core fonts expect.
func pdfText(pdf *gofpdf.Fpdf, s string) string {
	return pdf.UnicodeTranslatorFromDescriptor("")(s)
}

// domainRowToExportRow maps a domain.ExportRow to its wire form.
// Fields that are empty strings become nil pointers (omitempty in JSON).
func domainRowToExportRow(r domain.ExportRow) ExportRow {
	tripID, _ := uuid.Parse(r.TripID)
	row := ExportRow{
		TripID:         tripID,
		StartLocation:  r.StartLocation,
		TripDate:       mustParseDate(r.TripDate),
		AvailableSeats: r.AvailableSeats,
		BookedAt:       r.BookedAt,
	}
	if r.EndLocation != "" {
		row.EndLocation = &r.EndLocation
	}
	if r.PassengerUsername != "" {
		row.PassengerUsername = &r.PassengerUsername
	}
	if r.PassengerName != "" {
		row.PassengerName = &r.PassengerName
	}
	if r.PassengerEmail != "" {
		row.PassengerEmail = &r.PassengerEmail
	}
	return row
}

// domainRowToCSVRecord encodes a domain.ExportRow as a flat string slice.
// A nil BookedAt is encoded as an empty string.
func domainRowToCSVRecord(r domain.ExportRow) []string {
	return []string{
		r.TripID,
		r.StartLocation,
		r.EndLocation,
		r.TripDate,
		strconv.Itoa(r.AvailableSeats),
		r.PassengerUsername,
		r.PassengerName,
		r.PassengerEmail,
		formatOptionalTime(r.BookedAt),
	}
}

// mustParseDate parses an "2006-01-02" string into an openapi_types.Date.
// Panics on malformed input; callers are expected to pass service-generated dates.
func mustParseDate(s string) openapi_types.Date {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic("handler: malformed date from service: " + s)
	}
	return openapi_types.Date{Time: t}
}

// formatOptionalTime returns the RFC3339 representation of t, or "" if t is nil.
func formatOptionalTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
