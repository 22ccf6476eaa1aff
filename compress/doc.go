// Package compress opens compressed source tables as plain byte streams.
//
// Upstream tables are large and usually shipped compressed (the ATHYG catalogue comes as
// .csv.gz). The compression of a file is taken from its suffix:
//
//	.gz   gzip           (klauspost/compress/gzip)
//	.zst  Zstandard      (klauspost/compress/zstd)
//	.sz   S2 / Snappy    (klauspost/compress/s2)
//	.lz4  LZ4 frame      (pierrec/lz4/v4)
//
// Any other suffix is read as-is.
//
//	rc, err := compress.Open("athyg_v30-1.csv.gz")
//	if err != nil {
//		return err
//	}
//	defer rc.Close()
//
// Every codec also provides a stream writer, used to produce compressed fixtures.
//
// # Thread Safety
//
// Codecs are stateless and safe for concurrent use. The readers and writers they return
// are not.
package compress
