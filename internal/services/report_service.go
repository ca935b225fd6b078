package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"

	"bloodline/internal/models/db_models"
	"bloodline/internal/repositories"
	"bloodline/pkg/utils"
)

type ReportServiceInterface interface {
	GenerateResultPDF(ctx context.Context, actor Actor, requestID uuid.UUID) ([]byte, error)
}

type ReportService struct {
	requestRepo repositories.TestRequestRepository
	kitRepo     repositories.KitRepository
	logger      *zap.Logger
}

func NewReportService(
	requestRepo repositories.TestRequestRepository,
	kitRepo repositories.KitRepository,
	logger *zap.Logger,
) ReportServiceInterface {
	return &ReportService{requestRepo: requestRepo, kitRepo: kitRepo, logger: logger}
}

// GenerateResultPDF renders the verified result of a request as a printable
// report. Customers can only download their own reports; staff roles can
// download any.
func (r *ReportService) GenerateResultPDF(ctx context.Context, actor Actor, requestID uuid.UUID) ([]byte, error) {
	request, err := r.requestRepo.FindDetail(ctx, requestID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if request == nil {
		return nil, utils.ErrNotFound
	}

	if strings.EqualFold(string(actor.Role), string(db_models.RoleCustomer)) && request.AccountID != actor.AccountID {
		return nil, utils.ErrForbidden
	}

	if request.Result == nil || request.Result.Status != db_models.ResultVerified {
		return nil, fmt.Errorf("%w: result is not verified yet", utils.ErrInvalidState)
	}

	kitCode := ""
	if request.CollectionMethod == db_models.CollectionHome {
		if kit, err := r.kitRepo.FindKitByRequestID(ctx, requestID); err == nil && kit != nil {
			kitCode = kit.KitCode
		}
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, "DNA Test Result Report", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated %s", time.Now().Format("02 Jan 2006 15:04")), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	writeSection(pdf, "Request")
	writeField(pdf, "Request ID", request.ID.String())
	writeField(pdf, "Service", request.Service.Name)
	writeField(pdf, "Service type", string(request.Service.Type))
	writeField(pdf, "Collection method", string(request.CollectionMethod))
	if kitCode != "" {
		writeField(pdf, "Kit code", kitCode)
	}
	if request.Appointment != nil {
		writeField(pdf, "Appointment", utils.FormatRFC3339VN(*request.Appointment))
	}
	pdf.Ln(4)

	writeSection(pdf, "Customer")
	writeField(pdf, "Email", request.Account.Email)
	if request.Account.Profile != nil {
		writeField(pdf, "Full name", request.Account.Profile.FullName)
	}
	pdf.Ln(4)

	writeSection(pdf, "Samples")
	for i, sample := range request.Samples {
		writeField(pdf, fmt.Sprintf("Sample %d", i+1),
			fmt.Sprintf("%s (%s, born %d, %s)", sample.TesterName, sample.Gender, sample.BirthYear, sample.Relationship))
	}
	pdf.Ln(4)

	writeSection(pdf, "Result")
	writeField(pdf, "Status", string(request.Result.Status))
	writeField(pdf, "Verified at", formatUnix(request.Result.ConfirmedAt))
	for _, kv := range flattenPayload(request.Result.Payload) {
		writeField(pdf, kv[0], kv[1])
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		r.logger.Error("pdf generation failed", zap.String("request_id", requestID.String()), zap.Error(err))
		return nil, utils.ErrDatabaseError
	}

	return buf.Bytes(), nil
}

func writeSection(pdf *gofpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, title, "B", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.Ln(1)
}

func writeField(pdf *gofpdf.Fpdf, label, value string) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(50, 6, label, "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(0, 6, value, "", "L", false)
}

// flattenPayload turns the stored result JSON into ordered label/value pairs.
// Non-object payloads are rendered verbatim under a single key.
func flattenPayload(payload []byte) [][2]string {
	var fields map[string]interface{}
	if err := json.Unmarshal(payload, &fields); err != nil {
		return [][2]string{{"Details", string(payload)}}
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([][2]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, [2]string{k, fmt.Sprintf("%v", fields[k])})
	}
	return out
}

func formatUnix(ts *int64) string {
	if ts == nil {
		return ""
	}
	return time.Unix(*ts, 0).Format("02 Jan 2006 15:04")
}
