package handlers

import (
	"internal-angle-service/internal/api/dto"
	"internal-angle-service/internal/domain"
	"internal-angle-service/internal/platform/obs"
	"internal-angle-service/internal/services"
	"net/http"
	"strings"

	"github.com/cockroachdb/errors"
)

const (
	maxAngleBody = 1 << 20
	maxBatchBody = 16 << 20
)

// AngleHandler computes angles between line pairs submitted over HTTP.
type AngleHandler struct {
	Processor *services.PairProcessor
	// FormatPoint renders the intersection for responses.
	FormatPoint func(domain.Coordinate) (string, error)
	// Concurrency bounds the workers used by Batch.
	Concurrency int
	// MaxBatch caps the number of pairs in one Batch request.
	MaxBatch int
}

// Angle handles a single pair. Input problems are reported as 400.
func (h *AngleHandler) Angle(w http.ResponseWriter, r *http.Request) {
	var req dto.AngleRequest
	if err := decodeJSON(w, r, maxAngleBody, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if strings.TrimSpace(req.Line1) == "" || strings.TrimSpace(req.Line2) == "" {
		writeError(w, r, http.StatusBadRequest, "line1 and line2 are required")
		return
	}

	res := h.Processor.Process(r.Context(), domain.LinePair{
		Line1WKT: req.Line1,
		Line2WKT: req.Line2,
		CRS:      strings.TrimSpace(req.CRS),
	})
	if res.Err != nil {
		writeError(w, r, http.StatusBadRequest, res.Err.Error())
		return
	}

	degrees, intersection, err := h.present(res)
	if err != nil {
		obs.Logger(r.Context()).WithError(err).Error("format angle response failed")
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.AngleResponse{
		AngleDegrees: degrees,
		Outcome:      res.Result.Outcome.String(),
		Intersection: intersection,
		Mode:         res.Mode.String(),
	})
}

// Batch handles many pairs at once. A bad pair is reported in its own
// result and does not fail the request.
func (h *AngleHandler) Batch(w http.ResponseWriter, r *http.Request) {
	var req dto.BatchRequest
	if err := decodeJSON(w, r, maxBatchBody, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	if len(req.Pairs) == 0 {
		writeError(w, r, http.StatusBadRequest, "pairs must not be empty")
		return
	}
	if h.MaxBatch > 0 && len(req.Pairs) > h.MaxBatch {
		writeError(w, r, http.StatusBadRequest, "too many pairs in one request")
		return
	}

	pairs := make([]domain.LinePair, 0, len(req.Pairs))
	for _, p := range req.Pairs {
		pairs = append(pairs, domain.LinePair{
			PairID:   p.ID,
			Line1WKT: p.Line1,
			Line2WKT: p.Line2,
			CRS:      strings.TrimSpace(p.CRS),
		})
	}

	results, err := h.Processor.ProcessAll(r.Context(), pairs, h.Concurrency)
	if err != nil {
		obs.Logger(r.Context()).WithError(err).Warn("batch aborted")
		writeError(w, r, http.StatusServiceUnavailable, "request cancelled")
		return
	}

	res := dto.BatchResponse{Results: make([]dto.BatchPairResponse, 0, len(results))}
	for _, pr := range results {
		if pr.Err != nil {
			res.Results = append(res.Results, dto.BatchPairResponse{ID: pr.PairID, Error: pr.Err.Error()})
			continue
		}

		degrees, intersection, err := h.present(pr)
		if err != nil {
			obs.Logger(r.Context()).WithError(err).Error("format angle response failed")
			writeError(w, r, http.StatusInternalServerError, "internal server error")
			return
		}
		res.Results = append(res.Results, dto.BatchPairResponse{
			ID:           pr.PairID,
			AngleDegrees: degrees,
			Outcome:      pr.Result.Outcome.String(),
			Intersection: intersection,
			Mode:         pr.Mode.String(),
		})
	}

	writeJSON(w, r, http.StatusOK, res)
}

func (h *AngleHandler) present(res domain.PairResult) (*float64, *string, error) {
	var degrees *float64
	if res.Result.Defined() {
		d := res.Result.Degrees
		degrees = &d
	}

	if res.Result.Outcome == domain.OutcomeNoIntersection {
		return degrees, nil, nil
	}
	if h.FormatPoint == nil {
		return nil, nil, errors.New("present: point formatter is nil")
	}
	text, err := h.FormatPoint(res.Result.Intersection)
	if err != nil {
		return nil, nil, errors.Wrap(err, "present")
	}
	return degrees, &text, nil
}
