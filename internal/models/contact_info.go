package models

import "fmt"

// MaxEmergencyContacts caps the emergency contact list
const MaxEmergencyContacts = 5

// EmergencyContactData is the raw form of an EmergencyContact
type EmergencyContactData struct {
	Name         string `json:"name" bson:"name"`
	Relationship string `json:"relationship" bson:"relationship"`
	Phone        string `json:"phone" bson:"phone"`
}

// EmergencyContact is a person to call in an emergency
type EmergencyContact struct {
	name         string
	relationship RelationshipKind
	phone        Phone
}

func NewEmergencyContact(name string, relationship RelationshipKind, phone Phone) (EmergencyContact, error) {
	var errs ValidationErrors
	c := buildEmergencyContact(&errs, name, relationship, phone)
	if len(errs) > 0 {
		return EmergencyContact{}, errs
	}
	return c, nil
}

func (d EmergencyContactData) Build() (EmergencyContact, error) {
	var errs ValidationErrors
	rel := parseValue(&errs, "relationship", NewRelationshipKind, d.Relationship)
	phone := parseValue(&errs, "phone", NewPhone, d.Phone)
	c := buildEmergencyContact(&errs, d.Name, rel, phone)
	if len(errs) > 0 {
		return EmergencyContact{}, errs
	}
	return c, nil
}

func buildEmergencyContact(errs *ValidationErrors, name string, rel RelationshipKind, phone Phone) EmergencyContact {
	errs.require("relationship", rel.IsZero())
	errs.require("phone", phone.IsZero())
	return EmergencyContact{
		name:         nameText(errs, "name", name),
		relationship: rel,
		phone:        phone,
	}
}

func (c EmergencyContact) Name() string                   { return c.name }
func (c EmergencyContact) Relationship() RelationshipKind { return c.relationship }
func (c EmergencyContact) Phone() Phone                   { return c.phone }

func (c EmergencyContact) ToData() EmergencyContactData {
	return EmergencyContactData{
		Name:         c.name,
		Relationship: c.relationship.String(),
		Phone:        c.phone.String(),
	}
}

// ContactInfoData is the raw form of the contact step
type ContactInfoData struct {
	MobilePhone       string                 `json:"mobile_phone" bson:"mobile_phone"`
	PersonalEmail     string                 `json:"personal_email" bson:"personal_email"`
	Landline          string                 `json:"landline,omitempty" bson:"landline,omitempty"`
	CorporatePhone    string                 `json:"corporate_phone,omitempty" bson:"corporate_phone,omitempty"`
	EmergencyContacts []EmergencyContactData `json:"emergency_contacts" bson:"emergency_contacts"`
}

// ContactInfoParams holds validated value types; zero phones mean absent
type ContactInfoParams struct {
	MobilePhone       Phone
	PersonalEmail     Email
	Landline          Phone
	CorporatePhone    Phone
	EmergencyContacts []EmergencyContact
}

// ContactInfo holds the employee's phones, email and emergency contacts
type ContactInfo struct {
	mobilePhone       Phone
	personalEmail     Email
	landline          Phone
	corporatePhone    Phone
	emergencyContacts []EmergencyContact
}

func NewContactInfo(p ContactInfoParams) (ContactInfo, error) {
	var errs ValidationErrors
	info := buildContactInfo(&errs, p, len(p.EmergencyContacts))
	if len(errs) > 0 {
		return ContactInfo{}, errs
	}
	return info, nil
}

func (d ContactInfoData) Build() (ContactInfo, error) {
	var errs ValidationErrors
	p := ContactInfoParams{
		MobilePhone:    parseValue(&errs, "mobile_phone", NewPhone, d.MobilePhone),
		PersonalEmail:  parseValue(&errs, "personal_email", NewEmail, d.PersonalEmail),
		Landline:       parseOptionalValue(&errs, "landline", NewPhone, d.Landline),
		CorporatePhone: parseOptionalValue(&errs, "corporate_phone", NewPhone, d.CorporatePhone),
	}
	for i, raw := range d.EmergencyContacts {
		c, err := raw.Build()
		if err != nil {
			errs.Merge(fmt.Sprintf("emergency_contacts[%d]", i), err)
			continue
		}
		p.EmergencyContacts = append(p.EmergencyContacts, c)
	}
	info := buildContactInfo(&errs, p, len(d.EmergencyContacts))
	if len(errs) > 0 {
		return ContactInfo{}, errs
	}
	return info, nil
}

func (ContactInfoData) Step() Step     { return StepContact }
func (ContactInfoData) isStepPayload() {}

// buildContactInfo takes the submitted contact count separately so that
// entries rejected during parsing still count toward the list rules.
func buildContactInfo(errs *ValidationErrors, p ContactInfoParams, submitted int) ContactInfo {
	errs.require("mobile_phone", p.MobilePhone.IsZero())
	errs.require("personal_email", p.PersonalEmail.IsZero())

	switch {
	case submitted == 0:
		errs.Add(KindMissingRequiredField, "emergency_contacts", "must register at least one emergency contact")
	case submitted > MaxEmergencyContacts:
		errs.Add(KindCapacityExceeded, "emergency_contacts", fmt.Sprintf("cannot register more than %d emergency contacts", MaxEmergencyContacts))
	}

	seen := make(map[string]int, len(p.EmergencyContacts))
	for i, c := range p.EmergencyContacts {
		if first, dup := seen[c.phone.String()]; dup {
			errs.Add(KindDuplicateEntry, fmt.Sprintf("emergency_contacts[%d].phone", i),
				fmt.Sprintf("phone %s is already used by emergency contact %d", c.phone.Display(), first+1))
			continue
		}
		seen[c.phone.String()] = i
	}

	return ContactInfo{
		mobilePhone:       p.MobilePhone,
		personalEmail:     p.PersonalEmail,
		landline:          p.Landline,
		corporatePhone:    p.CorporatePhone,
		emergencyContacts: append([]EmergencyContact(nil), p.EmergencyContacts...),
	}
}

func (c ContactInfo) MobilePhone() Phone   { return c.mobilePhone }
func (c ContactInfo) PersonalEmail() Email { return c.personalEmail }

// Landline returns the landline and whether one was declared
func (c ContactInfo) Landline() (Phone, bool) { return c.landline, !c.landline.IsZero() }

func (c ContactInfo) CorporatePhone() (Phone, bool) {
	return c.corporatePhone, !c.corporatePhone.IsZero()
}

func (c ContactInfo) EmergencyContacts() []EmergencyContact {
	return append([]EmergencyContact(nil), c.emergencyContacts...)
}

func (c ContactInfo) HasEmergencyContacts() bool { return len(c.emergencyContacts) > 0 }

func (c ContactInfo) MobileE164() string { return c.mobilePhone.E164() }

func (c ContactInfo) ToData() ContactInfoData {
	d := ContactInfoData{
		MobilePhone:       c.mobilePhone.String(),
		PersonalEmail:     c.personalEmail.String(),
		Landline:          c.landline.String(),
		CorporatePhone:    c.corporatePhone.String(),
		EmergencyContacts: make([]EmergencyContactData, len(c.emergencyContacts)),
	}
	for i, ec := range c.emergencyContacts {
		d.EmergencyContacts[i] = ec.ToData()
	}
	return d
}
