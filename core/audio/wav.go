package audio

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
)

var (
	ErrNotWAV               = errors.New("Data is not a WAV file")
	ErrUnsupportedWAVFormat = errors.New("WAV data is not mono 16-bit data at 16k sample rate")
	ErrMissingDataChunk     = errors.New("Cannot find data segment in WAV file")
	ErrTruncatedWAV         = errors.New("WAV data is truncated")
)

const (
	riffTag  = "RIFF"
	dataTag  = "data"
	fmtSize  = 16
	pcmCodec = 1

	fileSizeOffset    = 4
	channelsOffset    = 22
	sampleRateOffset  = 24
	bitsPerSampleEnd  = 36
	bitsPerSampleFrom = 34
	firstChunkOffset  = 12
	chunkHeaderSize   = 8
)

// ValidateWAV checks that data is a mono 16-bit 16kHz WAV clip and returns
// the PCM payload following the header of its data chunk. The returned slice
// shares memory with data.
func ValidateWAV(data []byte) ([]byte, error) {
	if len(data) < len(riffTag) || string(data[:len(riffTag)]) != riffTag {
		return nil, ErrNotWAV
	}
	if len(data) < bitsPerSampleEnd {
		return nil, ErrTruncatedWAV
	}

	channels := binary.LittleEndian.Uint16(data[channelsOffset:])
	sampleRate := binary.LittleEndian.Uint32(data[sampleRateOffset:])
	bitsPerSample := binary.LittleEndian.Uint16(data[bitsPerSampleFrom:])
	if channels != 1 || sampleRate != DefaultSampleRate || bitsPerSample != 16 {
		return nil, ErrUnsupportedWAVFormat
	}

	fileSize := int64(binary.LittleEndian.Uint32(data[fileSizeOffset:]))
	offset := int64(firstChunkOffset)
	for {
		if offset+chunkHeaderSize > int64(len(data)) {
			if offset > fileSize {
				return nil, ErrMissingDataChunk
			}
			return nil, ErrTruncatedWAV
		}
		if string(data[offset:offset+4]) == dataTag {
			break
		}
		if offset > fileSize {
			return nil, ErrMissingDataChunk
		}

		chunkSize := int64(binary.LittleEndian.Uint32(data[offset+4:]))
		offset += chunkSize + chunkHeaderSize
	}

	return data[offset+chunkHeaderSize:], nil
}

type wavHeader struct {
	ChunkID       [4]byte
	ChunkSize     uint32
	Format        [4]byte
	Subchunk1ID   [4]byte
	Subchunk1Size uint32
	AudioFormat   uint16
	NumChannels   uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	Subchunk2ID   [4]byte
	Subchunk2Size uint32
}

// EncodeWAV wraps mono 16-bit samples in a canonical 44-byte WAV header.
func EncodeWAV(samples []int16, sampleRate int) ([]byte, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %d", sampleRate)
	}

	dataSize := uint32(len(samples) * 2)
	header := wavHeader{
		ChunkID:       [4]byte{'R', 'I', 'F', 'F'},
		ChunkSize:     36 + dataSize,
		Format:        [4]byte{'W', 'A', 'V', 'E'},
		Subchunk1ID:   [4]byte{'f', 'm', 't', ' '},
		Subchunk1Size: fmtSize,
		AudioFormat:   pcmCodec,
		NumChannels:   1,
		SampleRate:    uint32(sampleRate),
		ByteRate:      uint32(sampleRate) * 2,
		BlockAlign:    2,
		BitsPerSample: 16,
		Subchunk2ID:   [4]byte{'d', 'a', 't', 'a'},
		Subchunk2Size: dataSize,
	}

	buf := bytes.NewBuffer(make([]byte, 0, 44+len(samples)*2))
	if err := binary.Write(buf, binary.LittleEndian, header); err != nil {
		return nil, fmt.Errorf("failed to write WAV header: %w", err)
	}
	buf.Write(EncodePCM16LE(samples))

	return buf.Bytes(), nil
}
