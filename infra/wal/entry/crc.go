package entry

import "hash/crc32"

func crc(data []byte) uint32 {
	return crc32.ChecksumIEEE(data)
}

func crcValid(data []byte, sum uint32) bool {
	return crc(data) == sum
}
