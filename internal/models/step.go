package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Step identifies one independently updatable section of the employee record
type Step int

const (
	StepPersonalInfo Step = 1
	StepVehicle      Step = 2
	StepHousing      Step = 3
	StepContact      Step = 4
	StepAcademic     Step = 5
	StepDependents   Step = 6
)

// TotalSteps is the number of sections used for progress
const TotalSteps = 6

var stepNames = map[Step]string{
	StepPersonalInfo: "personal_info",
	StepVehicle:      "vehicle",
	StepHousing:      "housing",
	StepContact:      "contact",
	StepAcademic:     "academic",
	StepDependents:   "dependents",
}

// AllSteps lists the steps in dispatch order
func AllSteps() []Step {
	return []Step{StepPersonalInfo, StepVehicle, StepHousing, StepContact, StepAcademic, StepDependents}
}

// ParseStep accepts the step number or its name
func ParseStep(raw string) (Step, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	for s, name := range stepNames {
		if raw == name || raw == fmt.Sprint(int(s)) {
			return s, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownStep, raw)
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return fmt.Sprintf("step(%d)", int(s))
}

func (s Step) IsValid() bool {
	_, ok := stepNames[s]
	return ok
}

// StepPayload is the closed set of per-step inputs. Only the six raw section
// types implement it.
type StepPayload interface {
	Step() Step
	isStepPayload()
}

// DecodeStepPayload decodes a JSON body into the payload type for step.
// Fields the employee record does not manage are rejected.
func DecodeStepPayload(step Step, raw []byte) (StepPayload, error) {
	switch step {
	case StepPersonalInfo:
		return decodePayload[PersonalInfoData](raw)
	case StepVehicle:
		return decodePayload[VehicleInfoData](raw)
	case StepHousing:
		return decodePayload[HousingInfoData](raw)
	case StepContact:
		return decodePayload[ContactInfoData](raw)
	case StepAcademic:
		return decodePayload[AcademicInfoData](raw)
	case StepDependents:
		return decodePayload[DependentsData](raw)
	}
	return nil, fmt.Errorf("%w: %d", ErrUnknownStep, int(step))
}

func decodePayload[T StepPayload](raw []byte) (StepPayload, error) {
	payload, err := decodeStrict[T](raw)
	if err != nil {
		return nil, err
	}
	return payload, nil
}

// decodeStrict decodes exactly one JSON object, rejecting unknown fields and trailing data
func decodeStrict[T any](raw []byte) (T, error) {
	var payload T
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&payload); err != nil {
		var zero T
		return zero, decodeError(err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		var zero T
		return zero, ValidationErrors{NewValidationError(KindInvalidFormat, "", "request body must hold a single JSON object")}
	}
	return payload, nil
}

func decodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	msg := err.Error()
	switch {
	case errors.Is(err, io.EOF):
		return ValidationErrors{NewValidationError(KindMissingRequiredField, "", "request body is empty")}
	case strings.HasPrefix(msg, "json: unknown field "):
		field := strings.Trim(strings.TrimPrefix(msg, "json: unknown field "), `"`)
		return ValidationErrors{NewValidationError(KindUnsupportedField, field, "is not managed by the employee record")}
	case errors.As(err, &typeErr):
		return ValidationErrors{NewValidationError(KindInvalidFormat, typeErr.Field, "must be of type "+typeErr.Type.String())}
	case errors.As(err, &syntaxErr):
		return ValidationErrors{NewValidationError(KindInvalidFormat, "", "malformed JSON body")}
	}
	return ValidationErrors{NewValidationError(KindInvalidFormat, "", msg)}
}
