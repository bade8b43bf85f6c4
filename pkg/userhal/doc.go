// Package userhal implements the user-management negotiation protocol.
//
// Five properties carry user-management requests from the head unit to
// the vehicle: INITIAL_USER_INFO, SWITCH_USER, CREATE_USER, REMOVE_USER and
// USER_IDENTIFICATION_ASSOCIATION. Requests and responses are int32
// sequences whose first field is the request id, echoed unchanged in every
// response.
//
// The protocol is stateless. Each request yields a response, no response
// (nil value, nil error) or an error carrying model.StatusInvalidArg.
//
// # Identification Association
//
// SET and GET requests use different layouts:
//
//	SET [requestId, _, _, numTypes, type0, assoc0, type1, assoc1, ...]
//	GET [requestId, _, _, numTypes, type0, type1, ...]
//
// Both are reduced to the canonical record
//
//	[requestId, numTypes, type0, type1, ...]
//
// and answered with every queried type reported NOT_ASSOCIATED_ANY_USER,
// since no identity storage exists.
package userhal
