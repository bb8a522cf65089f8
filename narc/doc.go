// Package narc decodes NARC containers into their ordered member files.
//
// A NARC is a tagged-block container:
//
//	0x00 "NARC" magic
//	0x0C u16 header size
//	0x0E u16 block count
//	blocks: 4-byte tag, u32 size (including the 8-byte block header), payload
//
// Two blocks are required. BTAF is the allocation table: a u16 file count
// followed by (start, end) u32 offset pairs. GMIF holds the image the
// offsets point into. Other blocks, such as the BTNF name table, are skipped.
//
//	archive, err := narc.Decode(data)
//	if err != nil {
//		return err
//	}
//	for i, file := range archive.Files {
//		...
//	}
//
// Every structural problem is reported as an errors.KindFormat error and
// aborts the whole decode. The package never writes archives.
package narc
