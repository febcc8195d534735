package services

import (
	"context"
	"fmt"

	"github.com/Soochol/F2X-NeuroHub-sub006/internal/domain/wip"
	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/notifications"
	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/observability/logging"
	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/observability/performance"
	"github.com/Soochol/F2X-NeuroHub-sub006/internal/infrastructure/upstream"
	"github.com/Soochol/F2X-NeuroHub-sub006/pkg/config"
)

// PrintRequest describes one label print job.
type PrintRequest struct {
	WipID  string `json:"wip_id"`
	Copies int    `json:"copies"`
}

// PrintService submits label print jobs to the MES and reports outcomes on
// the notification bus.
type PrintService struct {
	client      upstream.Client
	bus         *notifications.Bus
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewPrintService creates a new print application service
func NewPrintService(client upstream.Client, bus *notifications.Bus, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *PrintService {
	return &PrintService{
		client:      client,
		bus:         bus,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// PrintLabel submits one label job. When label printing is disabled here or
// unimplemented upstream the caller gets *upstream.UnimplementedError, which
// is deliberately distinct from a fetch failure. Transport and server
// failures additionally raise an error toast.
func (s *PrintService) PrintLabel(ctx context.Context, req PrintRequest) error {
	if _, err := wip.Parse(req.WipID); err != nil {
		return err
	}
	if req.Copies <= 0 {
		req.Copies = 1
	}

	if !config.LabelPrintingEnabled {
		return &upstream.UnimplementedError{Feature: "label printing"}
	}

	marker := s.perfTracker.StartOperation("print_label")
	defer s.perfTracker.CompleteOperation(marker)

	if err := s.client.Post(ctx, "/api/v1/labels/print", req, nil); err != nil {
		marker.SetError(err)
		if upstream.IsUnimplemented(err) {
			return err
		}
		s.logger.Print().Error("Label print failed", "wipId", req.WipID, "error", err)
		s.bus.Error(fmt.Sprintf("Label print failed for %s", req.WipID))
		return err
	}

	s.logger.Print().Info("Label queued", "wipId", req.WipID, "copies", req.Copies)
	s.bus.Success(fmt.Sprintf("Label queued for %s", req.WipID))
	return nil
}
