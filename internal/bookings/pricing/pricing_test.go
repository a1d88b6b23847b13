package pricing

import (
	"errors"
	"testing"

	bookingserrors "salonhub/internal/bookings/errors"
	"salonhub/pkg/model"
)

func testCatalog() map[string]*model.Service {
	return map[string]*model.Service{
		"haircut": {
			ID:             "haircut",
			Price:          100,
			IsHomeService:  true,
			HomeServiceFee: 20,
		},
		"coloring": {
			ID:             "coloring",
			Price:          250,
			IsHomeService:  true,
			HomeServiceFee: 50,
		},
		"spa": {
			ID:             "spa",
			Price:          400,
			IsHomeService:  false,
			HomeServiceFee: 0,
		},
	}
}

func TestQuote(t *testing.T) {
	tests := []struct {
		name        string
		members     []model.GroupMember
		fee         model.PlatformFeeConfig
		homeService bool
		want        Breakdown
	}{
		{
			name: "single member single service no fees",
			members: []model.GroupMember{
				{Label: "Me", ServiceIDs: []string{"haircut"}},
			},
			fee:  model.PlatformFeeConfig{Mode: model.FeeModeNone},
			want: Breakdown{Subtotal: 100, Total: 100},
		},
		{
			name: "same service picked by two members is charged twice",
			members: []model.GroupMember{
				{Label: "Me", ServiceIDs: []string{"haircut"}},
				{Label: "Sister", ServiceIDs: []string{"haircut"}},
			},
			fee:  model.PlatformFeeConfig{Mode: model.FeeModeNone},
			want: Breakdown{Subtotal: 200, Total: 200},
		},
		{
			name: "percentage platform fee on the full subtotal",
			members: []model.GroupMember{
				{Label: "Me", ServiceIDs: []string{"haircut", "coloring"}},
			},
			fee:  model.PlatformFeeConfig{Mode: model.FeeModePercentage, Value: 10},
			want: Breakdown{Subtotal: 350, PlatformFee: 35, Total: 385},
		},
		{
			name: "fixed platform fee multiplied by group size",
			members: []model.GroupMember{
				{Label: "Me", ServiceIDs: []string{"haircut"}},
				{Label: "Mom", ServiceIDs: []string{"coloring"}},
				{Label: "Sister", ServiceIDs: []string{"haircut"}},
			},
			fee:  model.PlatformFeeConfig{Mode: model.FeeModeFixed, Value: 15},
			want: Breakdown{Subtotal: 450, PlatformFee: 45, Total: 495},
		},
		{
			name: "home surcharge collected per member per service",
			members: []model.GroupMember{
				{Label: "Me", ServiceIDs: []string{"haircut", "coloring"}},
				{Label: "Sister", ServiceIDs: []string{"haircut"}},
			},
			fee:         model.PlatformFeeConfig{Mode: model.FeeModeNone},
			homeService: true,
			want:        Breakdown{Subtotal: 450, HomeServiceFee: 90, Total: 540},
		},
		{
			name: "one unsupported service zeroes the whole home surcharge",
			members: []model.GroupMember{
				{Label: "Me", ServiceIDs: []string{"haircut"}},
				{Label: "Sister", ServiceIDs: []string{"spa"}},
			},
			fee:         model.PlatformFeeConfig{Mode: model.FeeModeNone},
			homeService: true,
			want:        Breakdown{Subtotal: 500, Total: 500},
		},
		{
			name: "home surcharge not collected when not requested",
			members: []model.GroupMember{
				{Label: "Me", ServiceIDs: []string{"haircut"}},
			},
			fee:  model.PlatformFeeConfig{Mode: model.FeeModeNone},
			want: Breakdown{Subtotal: 100, Total: 100},
		},
		{
			name: "all fee kinds stack into the total",
			members: []model.GroupMember{
				{Label: "Me", ServiceIDs: []string{"haircut"}},
				{Label: "Sister", ServiceIDs: []string{"coloring"}},
			},
			fee:         model.PlatformFeeConfig{Mode: model.FeeModePercentage, Value: 20},
			homeService: true,
			want:        Breakdown{Subtotal: 350, PlatformFee: 70, HomeServiceFee: 70, Total: 490},
		},
		{
			name: "zero-priced service still prices",
			members: []model.GroupMember{
				{Label: "Me", ServiceIDs: []string{"haircut"}},
			},
			fee:  model.PlatformFeeConfig{Mode: model.FeeModePercentage, Value: 10},
			want: Breakdown{Subtotal: 100, PlatformFee: 10, Total: 110},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Quote(tt.members, testCatalog(), tt.fee, tt.homeService)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Quote() = %+v, want %+v", got, tt.want)
			}
			if got.Total != got.Subtotal+got.PlatformFee+got.HomeServiceFee {
				t.Errorf("total %f is not the sum of its components", got.Total)
			}
		})
	}
}

func TestQuote_UnknownService(t *testing.T) {
	members := []model.GroupMember{
		{Label: "Me", ServiceIDs: []string{"haircut", "missing"}},
	}

	_, err := Quote(members, testCatalog(), model.PlatformFeeConfig{Mode: model.FeeModeNone}, false)
	if !errors.Is(err, bookingserrors.ErrUnknownService) {
		t.Fatalf("expected ErrUnknownService, got %v", err)
	}
}

func TestQuote_EmptyGroup(t *testing.T) {
	_, err := Quote(nil, testCatalog(), model.PlatformFeeConfig{Mode: model.FeeModeNone}, false)
	if err == nil {
		t.Fatal("expected error for empty group")
	}
}

func TestQuote_NegativePriceRejected(t *testing.T) {
	catalog := map[string]*model.Service{
		"bad": {ID: "bad", Price: -5},
	}
	members := []model.GroupMember{
		{Label: "Me", ServiceIDs: []string{"bad"}},
	}

	if _, err := Quote(members, catalog, model.PlatformFeeConfig{Mode: model.FeeModeNone}, false); err == nil {
		t.Fatal("expected error for negative catalog price")
	}
}

func TestQuote_UnknownFeeModeTreatedAsNone(t *testing.T) {
	members := []model.GroupMember{
		{Label: "Me", ServiceIDs: []string{"haircut"}},
	}

	got, err := Quote(members, testCatalog(), model.PlatformFeeConfig{Mode: "mystery", Value: 50}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.PlatformFee != 0 {
		t.Errorf("expected no platform fee for unknown mode, got %f", got.PlatformFee)
	}
}

func TestDistinctServiceIDs(t *testing.T) {
	members := []model.GroupMember{
		{Label: "Me", ServiceIDs: []string{"haircut", "coloring"}},
		{Label: "Sister", ServiceIDs: []string{"haircut", "spa"}},
	}

	got := DistinctServiceIDs(members)
	want := []string{"haircut", "coloring", "spa"}

	if len(got) != len(want) {
		t.Fatalf("expected %d ids, got %d: %v", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %s, got %s", i, want[i], got[i])
		}
	}
}
