package models

import "time"

// HousingInfoData is the raw form of the housing step
type HousingInfoData struct {
	Address         AddressData `json:"address" bson:"address"`
	HousingType     string      `json:"housing_type" bson:"housing_type"`
	AcquisitionType string      `json:"acquisition_type" bson:"acquisition_type"`
	Value           *float64    `json:"value,omitempty" bson:"value,omitempty"`
	AcquisitionDate *string     `json:"acquisition_date,omitempty" bson:"acquisition_date,omitempty"`
}

type HousingInfoParams struct {
	Address         Address
	HousingType     HousingType
	AcquisitionType AcquisitionType
	Value           *float64
	AcquisitionDate *time.Time
}

// HousingInfo describes where the employee lives
type HousingInfo struct {
	address         Address
	housingType     HousingType
	acquisitionType AcquisitionType
	value           *float64
	acquisitionDate *time.Time
}

func NewHousingInfo(p HousingInfoParams) (HousingInfo, error) {
	var errs ValidationErrors
	info := buildHousingInfo(&errs, p)
	if len(errs) > 0 {
		return HousingInfo{}, errs
	}
	return info, nil
}

func (d HousingInfoData) Build() (HousingInfo, error) {
	var errs ValidationErrors
	p := HousingInfoParams{
		Address:         parseValue(&errs, "address", NewAddress, d.Address),
		HousingType:     parseValue(&errs, "housing_type", NewHousingType, d.HousingType),
		AcquisitionType: parseValue(&errs, "acquisition_type", NewAcquisitionType, d.AcquisitionType),
		Value:           d.Value,
	}
	p.AcquisitionDate, _ = parseOptionalDateField(&errs, "acquisition_date", d.AcquisitionDate)
	info := buildHousingInfo(&errs, p)
	if len(errs) > 0 {
		return HousingInfo{}, errs
	}
	return info, nil
}

func (HousingInfoData) Step() Step     { return StepHousing }
func (HousingInfoData) isStepPayload() {}

func buildHousingInfo(errs *ValidationErrors, p HousingInfoParams) HousingInfo {
	errs.require("address", p.Address.IsZero())
	errs.require("housing_type", p.HousingType.IsZero())
	errs.require("acquisition_type", p.AcquisitionType.IsZero())

	if p.Value != nil && *p.Value <= 0 {
		errs.Add(KindRangeViolation, "value", "must be greater than zero")
	}
	if p.AcquisitionType.IsOwned() && (p.Value == nil || *p.Value <= 0) {
		errs.Add(KindCrossFieldViolation, "value", "owned housing requires a positive value")
	}
	if p.AcquisitionDate != nil {
		checkNotFuture(errs, "acquisition_date", *p.AcquisitionDate)
	}

	info := HousingInfo{
		address:         p.Address,
		housingType:     p.HousingType,
		acquisitionType: p.AcquisitionType,
	}
	if p.Value != nil {
		v := *p.Value
		info.value = &v
	}
	if p.AcquisitionDate != nil {
		d := truncateDay(*p.AcquisitionDate)
		info.acquisitionDate = &d
	}
	return info
}

func (h HousingInfo) Address() Address                 { return h.address }
func (h HousingInfo) HousingType() HousingType         { return h.housingType }
func (h HousingInfo) AcquisitionType() AcquisitionType { return h.acquisitionType }
func (h HousingInfo) IsOwned() bool                    { return h.acquisitionType.IsOwned() }
func (h HousingInfo) IsRented() bool                   { return h.acquisitionType.RequiresPayment() }
func (h HousingInfo) HasValue() bool                   { return h.value != nil }

// Value returns the declared property value and whether one was declared
func (h HousingInfo) Value() (float64, bool) {
	if h.value == nil {
		return 0, false
	}
	return *h.value, true
}

func (h HousingInfo) AcquisitionDate() (time.Time, bool) {
	if h.acquisitionDate == nil {
		return time.Time{}, false
	}
	return *h.acquisitionDate, true
}

func (h HousingInfo) ToData() HousingInfoData {
	d := HousingInfoData{
		Address:         h.address.ToData(),
		HousingType:     h.housingType.String(),
		AcquisitionType: h.acquisitionType.String(),
		AcquisitionDate: formatOptionalDate(h.acquisitionDate),
	}
	if h.value != nil {
		v := *h.value
		d.Value = &v
	}
	return d
}
