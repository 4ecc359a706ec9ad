package controlapi

import (
	"context"

	"github.com/moby/fdbkit/api"
	"github.com/moby/fdbkit/errdefs"
	"github.com/moby/fdbkit/identity"
	"github.com/moby/fdbkit/log"
	"github.com/moby/fdbkit/manager/state/store"
)

func validateSegment(seg *api.Segment) error {
	if seg == nil {
		return errdefs.ErrInvalidArgument("segment must be provided")
	}
	switch seg.NetworkType {
	case api.NetworkTypeVXLAN, api.NetworkTypeGRE, api.NetworkTypeGeneve:
	default:
		return errdefs.ErrInvalidArgument("unsupported network type %q", seg.NetworkType)
	}
	if seg.SegmentationID == 0 {
		return errdefs.ErrInvalidArgument("segmentation id must be provided")
	}
	if seg.NetworkType == api.NetworkTypeVXLAN && seg.SegmentationID >= 1<<24 {
		return errdefs.ErrInvalidArgument("vxlan segmentation id %d out of range", seg.SegmentationID)
	}
	return nil
}

// CreateSegment registers a segment. An ID is generated if none is provided.
//   - Returns `InvalidArgument` if the network type or segmentation id is
//     invalid.
//   - Returns `AlreadyExists` if the ID is taken.
func (s *Server) CreateSegment(ctx context.Context, request *api.CreateSegmentRequest) (*api.CreateSegmentResponse, error) {
	if err := validateSegment(request.Segment); err != nil {
		return nil, err
	}

	seg := request.Segment.Copy()
	seg.Meta = api.Meta{}
	if seg.ID == "" {
		seg.ID = identity.NewUUID()
	}

	err := s.store.Update(func(tx store.Tx) error {
		return store.CreateSegment(tx, seg)
	})
	if err != nil {
		return nil, translateError(ctx, err)
	}

	return &api.CreateSegmentResponse{
		Segment: seg,
	}, nil
}

// GetSegment returns a segment given a SegmentID.
//   - Returns `InvalidArgument` if SegmentID is not provided.
//   - Returns `NotFound` if the segment is not found.
func (s *Server) GetSegment(ctx context.Context, request *api.GetSegmentRequest) (*api.GetSegmentResponse, error) {
	if request.SegmentID == "" {
		return nil, errdefs.ErrInvalidArgument("segment id must be provided")
	}

	var seg *api.Segment
	s.store.View(func(tx store.ReadTx) {
		seg = store.GetSegment(tx, request.SegmentID)
	})
	if seg == nil {
		return nil, errdefs.ErrSegmentNotFound(request.SegmentID)
	}
	return &api.GetSegmentResponse{
		Segment: seg,
	}, nil
}

// ListSegments returns every segment.
func (s *Server) ListSegments(ctx context.Context, request *api.ListSegmentsRequest) (*api.ListSegmentsResponse, error) {
	var (
		segments []*api.Segment
		err      error
	)
	s.store.View(func(tx store.ReadTx) {
		segments, err = store.FindSegments(tx, store.All)
	})
	if err != nil {
		return nil, translateError(ctx, err)
	}
	return &api.ListSegmentsResponse{
		Segments: segments,
	}, nil
}

// RemoveSegment removes a segment and every binding on it, in one
// transaction.
//   - Returns `InvalidArgument` if SegmentID is not provided.
//   - Returns `NotFound` if the segment is not found.
func (s *Server) RemoveSegment(ctx context.Context, request *api.RemoveSegmentRequest) (*api.RemoveSegmentResponse, error) {
	if request.SegmentID == "" {
		return nil, errdefs.ErrInvalidArgument("segment id must be provided")
	}

	var removed []*api.Binding
	err := s.store.Update(func(tx store.Tx) error {
		var err error
		removed, err = store.DeleteSegment(tx, request.SegmentID)
		return err
	})
	if err != nil {
		if err == store.ErrNotExist {
			return nil, errdefs.ErrSegmentNotFound(request.SegmentID)
		}
		return nil, translateError(ctx, err)
	}

	log.G(ctx).WithField("segment.id", request.SegmentID).Debugf("segment removed with %d bindings", len(removed))
	return &api.RemoveSegmentResponse{
		Removed: removed,
	}, nil
}
