package printing

import (
	"context"
	"fmt"

	"github.com/taponce/backend/internal/infrastructure/storage"
	"go.uber.org/zap"
)

// ProofGenerator renders a proof and stores the PDF under the order's key
type ProofGenerator struct {
	renderer PDFRenderer
	store    storage.ObjectStorage
	logger   *zap.Logger
}

// NewProofGenerator creates a generator
func NewProofGenerator(renderer PDFRenderer, store storage.ObjectStorage, logger *zap.Logger) *ProofGenerator {
	return &ProofGenerator{renderer: renderer, store: store, logger: logger}
}

// Generate returns the object key of the stored PDF
func (g *ProofGenerator) Generate(ctx context.Context, data ProofData) (string, error) {
	html, err := RenderProofHTML(data)
	if err != nil {
		return "", err
	}
	pdf, err := g.renderer.RenderPDF(ctx, html)
	if err != nil {
		return "", err
	}

	key := storage.ProofKey(data.OrderNumber)
	if err := g.store.Put(ctx, key, pdf, "application/pdf"); err != nil {
		return "", fmt.Errorf("printing: store proof: %w", err)
	}
	g.logger.Info("Print proof stored", zap.String("order_number", data.OrderNumber), zap.String("key", key))
	return key, nil
}
