package services

import "math"

// Default pricing rates. The commission is GuzoBus revenue; VAT applies to
// the commission only, the carriers invoice their own tax on the fare.
const (
	DefaultCommissionRate = 0.05
	DefaultVATRate        = 0.15
)

// PriceQuote is the passenger-facing breakdown for one booking.
type PriceQuote struct {
	TicketPrice float64 // per seat
	Passengers  int
	Fare        float64 // ticket price x passengers
	Commission  float64
	VAT         float64
	Total       float64
}

// PricingCalculator computes booking totals.
type PricingCalculator struct {
	CommissionRate float64
	VATRate        float64 // applied to the commission
}

// NewPricingCalculator creates a calculator with the standard rates
func NewPricingCalculator() *PricingCalculator {
	return &PricingCalculator{
		CommissionRate: DefaultCommissionRate,
		VATRate:        DefaultVATRate,
	}
}

// Quote computes the total for ticketPrice x passengers plus the service
// commission and VAT on that commission, rounded to cents.
func (p *PricingCalculator) Quote(ticketPrice float64, passengers int) *PriceQuote {
	fare := ticketPrice * float64(passengers)
	commission := roundCents(fare * p.CommissionRate)
	vat := roundCents(commission * p.VATRate)

	return &PriceQuote{
		TicketPrice: ticketPrice,
		Passengers:  passengers,
		Fare:        fare,
		Commission:  commission,
		VAT:         vat,
		Total:       roundCents(fare + commission + vat),
	}
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
