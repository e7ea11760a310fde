// Package compress unwraps system files stored inside a general-purpose
// compression container.
//
// Archives of .sav files are commonly shipped as file.sav.zst, file.sav.gz
// and the like. The bytecode compression inside a system file is handled by
// package sav; this package only removes the outer wrapper so the decoder
// sees a plain file again.
//
// # Supported Containers
//
//	Container  Magic bytes                      Library
//	---------  -------------------------------  ------------------------------
//	None       "$FL2"                           (passthrough)
//	Zstd       28 B5 2F FD                      klauspost/compress/zstd
//	                                            (valyala/gozstd with -tags gozstd)
//	S2         FF 06 00 00 "S2sTwO"             klauspost/compress/s2
//	LZ4        04 22 4D 18                      pierrec/lz4/v4
//	Snappy     FF 06 00 00 "sNaPpY"             golang/snappy
//	Gzip       1F 8B                            klauspost/compress/gzip
//
// # Usage
//
// Sniff the first bytes and open the matching codec:
//
//	t, ok := compress.Sniff(prefix)
//	if !ok {
//	    return errs.ErrUnsupportedContainer
//	}
//	codec, err := compress.GetCodec(t)
//	plain, err := codec.Decompress(data)
//
// or let Open do both for a path:
//
//	f, err := compress.Open("survey.sav.zst")
//	if err != nil {
//	    return err
//	}
//	defer f.Close()
//	r, err := sav.NewReader(f)
//
// Plain files stay file-backed. Wrapped files are decompressed into memory
// once, since the decoder needs random access.
//
// # Thread Safety
//
// Codecs are stateless values and safe for concurrent use; pooled encoder
// and decoder state is never shared between calls.
package compress
