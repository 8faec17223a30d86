package inventory

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Tnze/go-mc/nbt"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"

	"sky_mods/internal/domain"
	"sky_mods/pkg/errcodes"
	"sky_mods/pkg/logx"
)

const (
	// MaxSlots двойной сундук; больше слотов у инвентарей игры не бывает,
	// кроме рюкзаков, для них лимит поднимается через WithMaxSlots.
	MaxSlots = 54

	maxDecompressedSize = 8 << 20
	slotsListKey        = "i"
)

var errNotCompound = errors.New("slot is not a compound")

// Input снимок инвентаря в одной из двух форм. Ровно одно поле заполнено.
type Input struct {
	// Base64 base64 от gzip/zlib/несжатого бинарного тегового дерева.
	Base64 string
	// JSON уже разобранный список слотов: массив объектов или null.
	JSON []byte
}

type Decoder struct {
	maxSlots int
}

func NewDecoder() *Decoder {
	return &Decoder{maxSlots: MaxSlots}
}

func (d *Decoder) WithMaxSlots(n int) *Decoder {
	if n > 0 {
		d.maxSlots = n
	}

	return d
}

// Decode возвращает по одному Node на слот в порядке слотов. Ошибка
// возвращается только если не читается весь снимок; битый слот заменяется
// пустым.
func (d *Decoder) Decode(ctx context.Context, in Input) ([]Node, error) {
	var (
		raw []any
		err error
	)

	switch {
	case in.Base64 != "":
		raw, err = d.readBinary(in.Base64)
	case len(in.JSON) > 0:
		raw, err = d.readJSON(in.JSON)
	default:
		return []Node{}, nil
	}

	if err != nil {
		return nil, domain.WrapError(err, errcodes.InvalidInventory, "inventory cannot be decoded")
	}

	if len(raw) > d.maxSlots {
		logger(ctx).Warn("inventory truncated",
			slog.Int("slots", len(raw)),
			slog.Int("max-slots", d.maxSlots),
		)

		raw = raw[:d.maxSlots]
	}

	nodes := make([]Node, len(raw))

	for i, v := range raw {
		node, err := toNode(v)
		if err != nil {
			logger(ctx).Error("slot decode failed",
				slog.Int(logx.FieldSlot, i),
				slog.String(logx.FieldRawNode, rawNodeString(v)),
				logx.Error(err),
			)

			node = EmptyNode
		}

		nodes[i] = node
	}

	return nodes, nil
}

func (d *Decoder) readBinary(encoded string) ([]any, error) {
	data, err := decodeBase64(encoded)
	if err != nil {
		return nil, fmt.Errorf("decodeBase64: %w", err)
	}

	data, err = decompress(data)
	if err != nil {
		return nil, fmt.Errorf("decompress: %w", err)
	}

	var root map[string]any
	if err := nbt.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("nbt.Unmarshal: %w", err)
	}

	list, ok := root[slotsListKey]
	if !ok || list == nil {
		// пустой инвентарь сериализуется без списка
		return []any{}, nil
	}

	slots, ok := asList(list)
	if !ok {
		return nil, fmt.Errorf("root %q is %T, not a list", slotsListKey, list)
	}

	return slots, nil
}

func (d *Decoder) readJSON(data []byte) ([]any, error) {
	var slots []any
	if err := json.Unmarshal(data, &slots); err != nil {
		return nil, fmt.Errorf("json.Unmarshal: %w", err)
	}

	return slots, nil
}

func decodeBase64(s string) ([]byte, error) {
	s = strings.TrimSpace(s)

	if data, err := base64.StdEncoding.DecodeString(s); err == nil {
		return data, nil
	}

	data, err := base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
	if err != nil {
		return nil, fmt.Errorf("base64: %w", err)
	}

	return data, nil
}

// decompress определяет формат по магическим байтам: gzip (1f 8b),
// zlib (78 xx) или несжатое дерево, начинающееся с тега compound (0a).
func decompress(data []byte) ([]byte, error) {
	var (
		r   io.ReadCloser
		err error
	)

	switch {
	case len(data) >= 2 && data[0] == 0x1f && data[1] == 0x8b:
		r, err = gzip.NewReader(bytes.NewReader(data))
	case len(data) >= 2 && data[0] == 0x78:
		r, err = zlib.NewReader(bytes.NewReader(data))
	default:
		return data, nil
	}

	if err != nil {
		return nil, err //nolint:wrapcheck
	}
	defer r.Close()

	out, err := io.ReadAll(io.LimitReader(r, maxDecompressedSize+1))
	if err != nil {
		return nil, fmt.Errorf("io.ReadAll: %w", err)
	}

	if len(out) > maxDecompressedSize {
		return nil, fmt.Errorf("decompressed inventory exceeds %d bytes", maxDecompressedSize)
	}

	return out, nil
}

// toNode превращает сырой элемент списка в Node. Пустой compound и null —
// оба пустой слот.
func toNode(v any) (node Node, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()

	if v == nil {
		return EmptyNode, nil
	}

	m, ok := asMap(v)
	if !ok {
		return nil, fmt.Errorf("%w: %T", errNotCompound, v)
	}

	if len(m) == 0 {
		return EmptyNode, nil
	}

	return Node(m), nil
}
