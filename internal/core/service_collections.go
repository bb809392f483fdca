package core

import "context"

// CreateCarrier adds an empty carrier to a submission or template and
// returns its id.
func (s *Service) CreateCarrier(ctx context.Context, ref DocumentRef, status SectionStatus) (string, error) {
	var id string
	err := s.run(ctx, opCreateCarrier, ref.AccountID, func(ctx context.Context) (string, error) {
		_, err := s.editBase(ctx, ref, baseEdit{base: func(b SubmissionBase) (SubmissionBase, error) {
			next, newID, err := CreateCarrier(b, status, s.opts.newID)
			id = newID
			return next, err
		}})
		return id, err
	})
	return id, err
}

// ListCarriers returns the carriers section.
func (s *Service) ListCarriers(ctx context.Context, ref DocumentRef) (Carriers, error) {
	return readBase(ctx, s, opGetCarrier, ref, func(b SubmissionBase) (Carriers, error) {
		return b.Carriers.Clone(), nil
	})
}

// GetCarrier returns one carrier.
func (s *Service) GetCarrier(ctx context.Context, ref DocumentRef, carrierID string) (Carrier, error) {
	return readBase(ctx, s, opGetCarrier, ref, func(b SubmissionBase) (Carrier, error) {
		return GetCarrier(b, carrierID)
	})
}

// SetCarrier replaces one carrier in place, or resets the collection when
// value is NotStarted.
func (s *Service) SetCarrier(ctx context.Context, ref DocumentRef, carrierID string, value Carriers) error {
	return s.run(ctx, opSetCarrier, ref.AccountID, func(ctx context.Context) (string, error) {
		_, err := s.editBase(ctx, ref, baseEdit{base: func(b SubmissionBase) (SubmissionBase, error) {
			return SetCarrier(b, carrierID, value)
		}})
		return carrierID, err
	})
}

// DeleteCarrier removes one carrier.
func (s *Service) DeleteCarrier(ctx context.Context, ref DocumentRef, carrierID string) error {
	return s.run(ctx, opDeleteCarrier, ref.AccountID, func(ctx context.Context) (string, error) {
		_, err := s.editBase(ctx, ref, baseEdit{base: func(b SubmissionBase) (SubmissionBase, error) {
			return DeleteCarrier(b, carrierID)
		}})
		return carrierID, err
	})
}

// CreateRecoveryFacility adds an empty recovery facility and returns its id.
func (s *Service) CreateRecoveryFacility(ctx context.Context, ref DocumentRef, status SectionStatus) (string, error) {
	var id string
	err := s.run(ctx, opCreateRecoveryFacility, ref.AccountID, func(ctx context.Context) (string, error) {
		_, err := s.editBase(ctx, ref, baseEdit{base: func(b SubmissionBase) (SubmissionBase, error) {
			next, newID, err := CreateRecoveryFacility(b, status, s.opts.newID)
			id = newID
			return next, err
		}})
		return id, err
	})
	return id, err
}

// ListRecoveryFacilities returns the recovery facility section.
func (s *Service) ListRecoveryFacilities(ctx context.Context, ref DocumentRef) (RecoveryFacilityDetail, error) {
	return readBase(ctx, s, opGetRecoveryFacility, ref, func(b SubmissionBase) (RecoveryFacilityDetail, error) {
		return b.RecoveryFacilityDetail.Clone(), nil
	})
}

// GetRecoveryFacility returns one recovery facility.
func (s *Service) GetRecoveryFacility(ctx context.Context, ref DocumentRef, facilityID string) (RecoveryFacility, error) {
	return readBase(ctx, s, opGetRecoveryFacility, ref, func(b SubmissionBase) (RecoveryFacility, error) {
		return GetRecoveryFacility(b, facilityID)
	})
}

// SetRecoveryFacility replaces one recovery facility in place, or resets
// the collection when value is NotStarted.
func (s *Service) SetRecoveryFacility(ctx context.Context, ref DocumentRef, facilityID string, value RecoveryFacilityDetail) error {
	return s.run(ctx, opSetRecoveryFacility, ref.AccountID, func(ctx context.Context) (string, error) {
		_, err := s.editBase(ctx, ref, baseEdit{base: func(b SubmissionBase) (SubmissionBase, error) {
			return SetRecoveryFacility(b, facilityID, value)
		}})
		return facilityID, err
	})
}

// DeleteRecoveryFacility removes one recovery facility.
func (s *Service) DeleteRecoveryFacility(ctx context.Context, ref DocumentRef, facilityID string) error {
	return s.run(ctx, opDeleteRecoveryFacility, ref.AccountID, func(ctx context.Context) (string, error) {
		_, err := s.editBase(ctx, ref, baseEdit{base: func(b SubmissionBase) (SubmissionBase, error) {
			return DeleteRecoveryFacility(b, facilityID)
		}})
		return facilityID, err
	})
}
