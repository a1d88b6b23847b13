// Package pricing derives the charge breakdown of a group booking from
// the catalog snapshot taken at composition time. It is deliberately
// free of storage and transport concerns so the math can be exercised
// in isolation.
package pricing

import (
	"fmt"

	"salonhub/internal/bookings/errors"
	"salonhub/pkg/model"
)

// Breakdown is the priced result of a selection. Total is always the
// sum of the three components.
type Breakdown struct {
	Subtotal       float64 `json:"subtotal"`
	PlatformFee    float64 `json:"platform_fee"`
	HomeServiceFee float64 `json:"home_service_fee"`
	Total          float64 `json:"total"`
}

// Quote prices the selection of every group member against the given
// catalog snapshot.
//
// Each (member, service) pair is charged independently: two members
// picking the same service pay for it twice, and the home-service
// surcharge of that service is likewise collected twice. The home
// surcharge applies only when it was requested AND every distinct
// selected service supports home service; otherwise it is forced to
// zero, it is never partially applied.
func Quote(members []model.GroupMember, catalog map[string]*model.Service, fee model.PlatformFeeConfig, homeService bool) (Breakdown, error) {
	if len(members) == 0 {
		return Breakdown{}, fmt.Errorf("pricing requires at least one group member")
	}

	var subtotal, homeFee float64
	for _, member := range members {
		for _, serviceID := range member.ServiceIDs {
			svc, ok := catalog[serviceID]
			if !ok || svc == nil {
				return Breakdown{}, fmt.Errorf("%w: %s", errors.ErrUnknownService, serviceID)
			}
			if svc.Price < 0 {
				return Breakdown{}, fmt.Errorf("service %s has a negative price: %f", serviceID, svc.Price)
			}
			subtotal += svc.Price
			homeFee += svc.HomeServiceFee
		}
	}

	if !homeService || !SupportsHomeService(members, catalog) {
		homeFee = 0
	}

	platformFee := platformFeeFor(fee, subtotal, len(members))

	return Breakdown{
		Subtotal:       subtotal,
		PlatformFee:    platformFee,
		HomeServiceFee: homeFee,
		Total:          subtotal + platformFee + homeFee,
	}, nil
}

func platformFeeFor(fee model.PlatformFeeConfig, subtotal float64, groupCount int) float64 {
	switch fee.Mode {
	case model.FeeModePercentage:
		return subtotal * fee.Value / 100
	case model.FeeModeFixed:
		return fee.Value * float64(groupCount)
	default:
		return 0
	}
}

// SupportsHomeService reports whether every distinct service selected
// across the whole group can be performed at the customer's home.
func SupportsHomeService(members []model.GroupMember, catalog map[string]*model.Service) bool {
	for _, id := range DistinctServiceIDs(members) {
		svc, ok := catalog[id]
		if !ok || !svc.IsHomeService {
			return false
		}
	}
	return true
}

// DistinctServiceIDs returns the deduplicated union of every member's
// selection, in first-appearance order.
func DistinctServiceIDs(members []model.GroupMember) []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, member := range members {
		for _, id := range member.ServiceIDs {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids
}
