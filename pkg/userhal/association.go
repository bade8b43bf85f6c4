package userhal

import "github.com/rcar-vhal/vhal-go/pkg/model"

type requestType uint8

const (
	requestSet requestType = iota
	requestGet
)

// Field positions in raw association requests.
const (
	fieldRequestID = 0
	fieldNumTypes  = 3
	fieldFirstType = 4
)

// canonicalize reduces a SET or GET association request to
// [requestId, numTypes, type0, type1, ...]. SET requests interleave an
// association value after every type; those values are dropped.
func canonicalize(fields []int32, typ requestType) ([]int32, error) {
	if len(fields) <= fieldNumTypes {
		return nil, model.Errorf(model.StatusInvalidArg,
			"association request has %d fields, need at least %d", len(fields), fieldNumTypes+1)
	}

	numTypes := fields[fieldNumTypes]
	stride := 1
	if typ == requestSet {
		stride = 2
	}

	available := (len(fields) - fieldFirstType + stride - 1) / stride
	if numTypes < 0 || int(numTypes) > available {
		return nil, model.Errorf(model.StatusInvalidArg,
			"association request declares %d types but carries %d", numTypes, available)
	}

	record := make([]int32, 2, 2+numTypes)
	record[0] = fields[fieldRequestID]
	record[1] = numTypes
	for i := range int(numTypes) {
		record = append(record, fields[fieldFirstType+i*stride])
	}
	return record, nil
}

// defaultAssociation answers a canonical record with every queried type
// reported as not associated with any user.
func defaultAssociation(req model.PropertyValue, record []int32) *model.PropertyValue {
	numTypes := record[1]
	fields := make([]int32, 0, 2+2*numTypes)
	fields = append(fields, record[0], numTypes)
	for _, typ := range record[2:] {
		fields = append(fields, typ, model.AssociationNotAssociatedAnyUser)
	}
	return response(req, fields...)
}
