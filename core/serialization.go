package core

import (
	"time"

	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/varint"
)

// documentRecordMUS serializes DocumentRecord in the MUS binary format.
// Field order is part of the on-disk format; append new fields at the
// end only.
type documentRecordMUS struct{}

// DocumentRecordMUS is the MUS serializer for DocumentRecord.
var DocumentRecordMUS = documentRecordMUS{}

func (documentRecordMUS) Marshal(r DocumentRecord, bs []byte) (n int) {
	n = ord.String.Marshal(r.ID, bs)
	n += ord.String.Marshal(r.Name, bs[n:])
	n += ord.String.Marshal(r.MimeType, bs[n:])
	n += ord.String.Marshal(r.Folder, bs[n:])
	n += ord.String.Marshal(r.Fingerprint, bs[n:])
	n += varint.Int.Marshal(r.ChunkCount, bs[n:])
	n += varint.Int64.Marshal(r.IngestedAt.UnixMicro(), bs[n:])
	return n
}

func (documentRecordMUS) Unmarshal(bs []byte) (r DocumentRecord, n int, err error) {
	var n1 int
	r.ID, n, err = ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	r.Name, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	r.MimeType, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	r.Folder, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	r.Fingerprint, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	r.ChunkCount, n1, err = varint.Int.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	var micros int64
	micros, n1, err = varint.Int64.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	r.IngestedAt = time.UnixMicro(micros).UTC()
	return
}

func (documentRecordMUS) Size(r DocumentRecord) (size int) {
	size = ord.String.Size(r.ID)
	size += ord.String.Size(r.Name)
	size += ord.String.Size(r.MimeType)
	size += ord.String.Size(r.Folder)
	size += ord.String.Size(r.Fingerprint)
	size += varint.Int.Size(r.ChunkCount)
	size += varint.Int64.Size(r.IngestedAt.UnixMicro())
	return size
}
