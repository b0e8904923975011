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


// Package storage defines the document registry: the system of record
// for which documents each tenant has ingested. The vector store holds
// chunk embeddings; the registry holds per-document bookkeeping (name,
// source folder, content fingerprint, chunk count, ingest time) and
// answers the question the bulk pipeline asks before fetching anything:
// which of these candidates are already in.
//
// The interface lives here; the BadgerDB implementation lives in
// storage/badger. Records travel through the MUS binary serializers in
// the core package.
package storage
