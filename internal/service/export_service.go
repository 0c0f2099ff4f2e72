package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"canebill/internal/model"
	"canebill/internal/repository"
	"canebill/internal/storage"
	"canebill/pkg/apperror"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf/v2"
	"gorm.io/gorm"
)

// ExportService renders a bill as a printable document and uploads it for
// sharing. It only ever reads a stable snapshot of one bill; all rendering
// input comes from the denormalized bill row.
type ExportService interface {
	RenderBillPDF(ctx context.Context, direction, id string) ([]byte, string, error)
	ShareBill(ctx context.Context, direction, id string) (string, error)
}

type exportService struct {
	billRepo  repository.BillRepository
	auditRepo repository.AuditRepository
	uploader  storage.Uploader
}

func NewExportService(billRepo repository.BillRepository, auditRepo repository.AuditRepository, uploader storage.Uploader) ExportService {
	return &exportService{billRepo: billRepo, auditRepo: auditRepo, uploader: uploader}
}

func (s *exportService) RenderBillPDF(ctx context.Context, direction, id string) ([]byte, string, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, "", apperror.Validation("invalid bill id")
	}

	bill, err := s.billRepo.FindByID(ctx, direction, uid)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", apperror.NotFound("bill not found")
		}
		return nil, "", apperror.Internal("failed to fetch bill", err)
	}

	data, err := renderBillPDF(bill)
	if err != nil {
		return nil, "", apperror.Internal("failed to render bill", err)
	}

	filename := fmt.Sprintf("bill_%s.pdf", strings.Split(bill.ID.String(), "-")[0])
	return data, filename, nil
}

func (s *exportService) ShareBill(ctx context.Context, direction, id string) (string, error) {
	if s.uploader == nil {
		return "", apperror.Internal("object storage is not configured", nil)
	}

	data, _, err := s.RenderBillPDF(ctx, direction, id)
	if err != nil {
		return "", err
	}

	// Key scheme: name_timestamp_random, same as the upload endpoint
	key := fmt.Sprintf("bills/bill_%s_%d_%d.pdf",
		strings.Split(id, "-")[0], time.Now().UnixMilli(), rand.Intn(1e7))

	url, err := s.uploader.Upload(ctx, key, "application/pdf", data)
	if err != nil {
		return "", apperror.Internal("failed to upload bill document", err)
	}

	writeAuditEntry(ctx, s.auditRepo, model.ActionShareBill, id, "", map[string]string{"url": url})

	return url, nil
}

// renderBillPDF lays out one bill on an A4 page: party block, weight table,
// money summary
func renderBillPDF(bill *model.Bill) ([]byte, error) {
	title := "Sugarcane Purchase Bill"
	payment := "Given Money"
	if bill.Direction == model.DirectionSeller {
		title = "Sugarcane Sale Bill"
		payment = "Taken Money"
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, title, "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("Bill No: %s", bill.ID.String()), "", 1, "C", false, 0, "")
	pdf.CellFormat(190, 6, fmt.Sprintf("Date: %s", bill.CreatedAt.Format("02-Jan-2006 03:04 PM")), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	// Party Info Box
	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Party Information", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 7, fmt.Sprintf("Name: %s", bill.PartyName), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Phone: %s", bill.PartyNumber), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Driver: %s", bill.DriverName), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Vehicle: %s", bill.VehicleType), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Cutter: %s", bill.Cutter), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Quality: %s", bill.SugarcaneQuality), "RB", 1, "L", false, 0, "")
	pdf.Ln(5)

	// Weight table
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Weight Details", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(47.5, 7, "Filled Vehicle", "1", 0, "C", true, 0, "")
	pdf.CellFormat(47.5, 7, "Empty Vehicle", "1", 0, "C", true, 0, "")
	pdf.CellFormat(47.5, 7, "Binding Material", "1", 0, "C", true, 0, "")
	pdf.CellFormat(47.5, 7, "Net Sugarcane", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(47.5, 6, bill.FilledVehicleWeight.StringFixed(2), "1", 0, "C", false, 0, "")
	pdf.CellFormat(47.5, 6, bill.EmptyVehicleWeight.StringFixed(2), "1", 0, "C", false, 0, "")
	pdf.CellFormat(47.5, 6, bill.BindingMaterial.StringFixed(2), "1", 0, "C", false, 0, "")
	pdf.CellFormat(47.5, 6, bill.OnlySugarcaneWeight.StringFixed(2), "1", 1, "C", false, 0, "")
	pdf.Ln(5)

	// Money summary
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Payment Summary", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 7, fmt.Sprintf("Rate: %s", bill.SugarcaneRate.StringFixed(2)), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Total Bill: %s", bill.TotalBill.StringFixed(2)), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("%s: %s", payment, bill.CounterpartyPayment.StringFixed(2)), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Remaining: %s", bill.RemainingMoney.StringFixed(2)), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(190, 7, fmt.Sprintf("Payment Type: %s", bill.PaymentType), "LRB", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
