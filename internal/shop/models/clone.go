package models

// Clone returns a deep copy of the shop so stores can hand out aggregates
// without sharing mutable sub-records.
func (s *Shop) Clone() *Shop {
	if s == nil {
		return nil
	}
	out := *s
	if s.Verification.SubmittedLocation != nil {
		loc := *s.Verification.SubmittedLocation
		out.Verification.SubmittedLocation = &loc
	}
	if s.Verification.LocationLock != nil {
		lock := *s.Verification.LocationLock
		out.Verification.LocationLock = &lock
	}
	if s.Verification.License != nil {
		lic := *s.Verification.License
		if lic.ExtractedNumber != nil {
			n := *lic.ExtractedNumber
			lic.ExtractedNumber = &n
		}
		if lic.ExtractedAddress != nil {
			a := *lic.ExtractedAddress
			lic.ExtractedAddress = &a
		}
		out.Verification.License = &lic
	}
	if s.Verification.PhotoProof != nil {
		proof := *s.Verification.PhotoProof
		if proof.ExifLat != nil {
			lat := *proof.ExifLat
			proof.ExifLat = &lat
		}
		if proof.ExifLon != nil {
			lon := *proof.ExifLon
			proof.ExifLon = &lon
		}
		out.Verification.PhotoProof = &proof
	}
	if s.Verification.ReviewedAt != nil {
		at := *s.Verification.ReviewedAt
		out.Verification.ReviewedAt = &at
	}
	return &out
}
