// Copyright 2025 Codemet
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import "errors"

// Domain validation errors
var (
	// ErrEmptyTenantID indicates a tenant ID was not provided.
	ErrEmptyTenantID = errors.New("tenant ID cannot be empty")

	// ErrEmptyDocumentID indicates a document ID was not provided.
	ErrEmptyDocumentID = errors.New("document ID cannot be empty")

	// ErrEmptyDocumentName indicates a document name was not provided.
	ErrEmptyDocumentName = errors.New("document name cannot be empty")

	// ErrEmptyQuery indicates a query string was empty or whitespace.
	ErrEmptyQuery = errors.New("query cannot be empty")

	// ErrEmptyContent indicates a document's extracted text was empty.
	ErrEmptyContent = errors.New("document content cannot be empty")
)
