package models

func (c Customer) GetBusinessId() string {
	return c.BusinessId
}

func (p Product) GetBusinessId() string {
	return p.BusinessId
}

func (t PricingTier) GetBusinessId() string {
	return t.BusinessId
}

func (v Variation) GetBusinessId() string {
	return v.BusinessId
}

func (a Addon) GetBusinessId() string {
	return a.BusinessId
}

func (o AddonOption) GetBusinessId() string {
	return o.BusinessId
}

func (q Quote) GetBusinessId() string {
	return q.BusinessId
}

func (qi QuoteItem) GetBusinessId() string {
	return qi.BusinessId
}

func (t Task) GetBusinessId() string {
	return t.BusinessId
}

func (h History) GetBusinessId() string {
	return h.BusinessId
}

func (e QuoteEvent) GetBusinessId() string {
	return e.BusinessId
}

func (s QuoteNumberSeries) GetBusinessId() string {
	return s.BusinessId
}
