package entry

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
)

const headerSize = 21 // [type:1][seq:8][time:8][len:4]

type Config struct {
	Dir         string
	SegmentSize int64
}

// WAL is the entry log: every accepted command is framed and appended
// before the engine runs it. Segments rotate on size so old command
// history stays in closed files.
type WAL struct {
	dir      string
	segSize  int64
	current  *segment
	segIndex int
}

func Open(cfg Config) (*WAL, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create wal dir: %w", err)
	}

	index, err := lastSegmentIndex(cfg.Dir)
	if err != nil {
		return nil, err
	}
	seg, err := openSegment(cfg.Dir, index)
	if err != nil {
		return nil, err
	}

	return &WAL{
		dir:      cfg.Dir,
		segSize:  cfg.SegmentSize,
		current:  seg,
		segIndex: index,
	}, nil
}

// Append frames and writes one record, then fsyncs. The engine must
// not process a command the log could still lose.
func (w *WAL) Append(r *Record) error {
	payloadLen := uint32(len(r.Data))

	// Frame: [type:1][seq:8][time:8][len:4][payload][crc:4]
	buf := make([]byte, headerSize+int(payloadLen)+4)
	buf[0] = byte(r.Type)
	binary.BigEndian.PutUint64(buf[1:9], r.Seq)
	binary.BigEndian.PutUint64(buf[9:17], uint64(r.Time))
	binary.BigEndian.PutUint32(buf[17:21], payloadLen)
	copy(buf[headerSize:], r.Data)

	sum := crc(buf[:headerSize+int(payloadLen)])
	binary.BigEndian.PutUint32(buf[headerSize+int(payloadLen):], sum)

	if err := w.current.append(buf); err != nil {
		return fmt.Errorf("wal append: %w", err)
	}
	if err := w.current.sync(); err != nil {
		return fmt.Errorf("wal sync: %w", err)
	}

	if w.current.offset >= w.segSize {
		return w.rotate()
	}
	return nil
}

func (w *WAL) rotate() error {
	_ = w.current.close()
	w.segIndex++

	seg, err := openSegment(w.dir, w.segIndex)
	if err != nil {
		return err
	}
	w.current = seg
	return nil
}

func (w *WAL) Close() error {
	return w.current.close()
}

func lastSegmentIndex(dir string) (int, error) {
	files, err := filepath.Glob(filepath.Join(dir, "segment-*.wal"))
	if err != nil {
		return 0, err
	}
	return max(len(files)-1, 0), nil
}
