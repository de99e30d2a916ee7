package form

import (
	"courier/internal/draft"
)

// SenderStep edits the sender section.
type SenderStep struct {
	v draft.Sender
}

// Load replaces the local state with the draft's sender section.
func (s *SenderStep) Load(store *draft.Store) {
	s.v = store.FormData().Sender
}

// Values returns the local state.
func (s *SenderStep) Values() draft.Sender { return s.v }

func (s *SenderStep) SetName(v string)         { s.v.Name = v }
func (s *SenderStep) SetMobileNumber(v string) { s.v.MobileNumber = SanitizeMobile(v) }
func (s *SenderStep) SetLocation(v string)     { s.v.Location = v }
func (s *SenderStep) SetStreet(v string)       { s.v.Street = v }
func (s *SenderStep) SetEstate(v string)       { s.v.Estate = v }

// CanProceed reports whether every field has a value.
func (s *SenderStep) CanProceed() bool {
	return filled(s.v.Name, s.v.MobileNumber, s.v.Location, s.v.Street, s.v.Estate)
}

// Validate returns the inline errors for the local state.
func (s *SenderStep) Validate() FieldErrors {
	return validateParty("sender", "Sender", s.v.Name, s.v.MobileNumber, s.v.Location, s.v.Street, s.v.Estate)
}

// Proceed writes the local state into the draft.
func (s *SenderStep) Proceed(store *draft.Store) error {
	if !s.CanProceed() {
		return ErrStepIncomplete
	}
	if err := s.Validate().orNil(); err != nil {
		return err
	}
	store.UpdateSender(draft.SenderPatch{
		Name:         draft.Ptr(s.v.Name),
		MobileNumber: draft.Ptr(s.v.MobileNumber),
		Location:     draft.Ptr(s.v.Location),
		Street:       draft.Ptr(s.v.Street),
		Estate:       draft.Ptr(s.v.Estate),
	})
	return nil
}

// ReceiverStep edits the receiver section.
type ReceiverStep struct {
	v draft.Receiver
}

// Load replaces the local state with the draft's receiver section.
func (s *ReceiverStep) Load(store *draft.Store) {
	s.v = store.FormData().Receiver
}

// Values returns the local state.
func (s *ReceiverStep) Values() draft.Receiver { return s.v }

func (s *ReceiverStep) SetName(v string)         { s.v.Name = v }
func (s *ReceiverStep) SetMobileNumber(v string) { s.v.MobileNumber = SanitizeMobile(v) }
func (s *ReceiverStep) SetLocation(v string)     { s.v.Location = v }
func (s *ReceiverStep) SetStreet(v string)       { s.v.Street = v }
func (s *ReceiverStep) SetEstate(v string)       { s.v.Estate = v }

// CanProceed reports whether every field has a value.
func (s *ReceiverStep) CanProceed() bool {
	return filled(s.v.Name, s.v.MobileNumber, s.v.Location, s.v.Street, s.v.Estate)
}

// Validate returns the inline errors for the local state.
func (s *ReceiverStep) Validate() FieldErrors {
	return validateParty("receiver", "Receiver", s.v.Name, s.v.MobileNumber, s.v.Location, s.v.Street, s.v.Estate)
}

// Proceed writes the local state into the draft.
func (s *ReceiverStep) Proceed(store *draft.Store) error {
	if !s.CanProceed() {
		return ErrStepIncomplete
	}
	if err := s.Validate().orNil(); err != nil {
		return err
	}
	store.UpdateReceiver(draft.ReceiverPatch{
		Name:         draft.Ptr(s.v.Name),
		MobileNumber: draft.Ptr(s.v.MobileNumber),
		Location:     draft.Ptr(s.v.Location),
		Street:       draft.Ptr(s.v.Street),
		Estate:       draft.Ptr(s.v.Estate),
	})
	return nil
}
