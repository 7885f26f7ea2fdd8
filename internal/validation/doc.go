// Songgraph - Graph-Based Song Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/songgraph

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is shared process-wide. Field names in errors
// come from the `query` struct tag, so messages refer to request parameters:
//
//	type RecommendationParams struct {
//	    K          int      `query:"k" validate:"gte=0,lte=100"`
//	    Attributes []string `query:"attributes" validate:"max=16,unique,dive,attrname"`
//	}
//
//	if verr := validation.ValidateStruct(&params); verr != nil {
//	    apiErr := verr.ToAPIError()
//	    respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
//	    return
//	}
//
// The custom "attrname" tag accepts attribute names such as "Energy" or "Tempo".
package validation
