package domain

// ContactInfo is the shop's single editable contact, payment and services record
type ContactInfo struct {
	Phone            string `json:"phone"`
	Email            string `json:"email"`
	Address          string `json:"address"`
	FacebookURL      string `json:"facebookUrl"`
	ServicesProvided string `json:"servicesProvided"`
	BkashNumber      string `json:"bkashNumber"`
	NagadNumber      string `json:"nagadNumber"`
}

// DefaultContactInfo is shown until an admin saves real details
func DefaultContactInfo() ContactInfo {
	return ContactInfo{
		Phone:       "01XXXXXXXXX",
		Email:       "info@abslibrary.com",
		Address:     "ঢাকা, বাংলাদেশ",
		FacebookURL: "https://facebook.com",
		BkashNumber: "017XXXXXXXX",
		NagadNumber: "018XXXXXXXX",
		ServicesProvided: "১. কম্পিউটার উইন্ডোজ সেটআপ\n" +
			"২. হার্ডওয়্যার রিপেয়ারিং\n" +
			"৩. সফটওয়্যার ইনস্টলেশন\n" +
			"৪. প্রিন্টার সার্ভিসিং\n" +
			"৫. ডাটা রিকভারি",
	}
}

// PaymentNumbers are the mobile-payment accounts a customer pays into at checkout
type PaymentNumbers struct {
	Bkash string `json:"bkash"`
	Nagad string `json:"nagad"`
}

// PaymentNumbers extracts the checkout payment accounts
func (c ContactInfo) PaymentNumbers() PaymentNumbers {
	return PaymentNumbers{Bkash: c.BkashNumber, Nagad: c.NagadNumber}
}
