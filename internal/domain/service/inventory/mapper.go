package inventory

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"sky_mods/internal/domain/entity"
	"sky_mods/pkg/logx"
)

const enchantKeyPrefix = "!ench"

var formattingCodes = regexp.MustCompile(`§.`) //nolint:gochecknoglobals

// Mapper строит из слотов два параллельных списка: Item для отображения и
// AuctionRepresentation для оценки. Индекс i в обоих — один и тот же слот.
type Mapper struct{}

func NewMapper() *Mapper {
	return &Mapper{}
}

func (m *Mapper) Map(ctx context.Context, nodes []Node) ([]entity.Item, []entity.AuctionRepresentation) {
	items := make([]entity.Item, len(nodes))
	reps := make([]entity.AuctionRepresentation, len(nodes))

	for i, node := range nodes {
		item, rep, err := m.MapOne(node)
		if err != nil {
			logger(ctx).Error("slot mapping failed",
				slog.Int(logx.FieldSlot, i),
				slog.String(logx.FieldRawNode, rawNodeString(node)),
				logx.Error(err),
			)

			item, rep = entity.Item{}, entity.AuctionRepresentation{}
		}

		items[i], reps[i] = item, rep
	}

	return items, reps
}

// MapOne извлекает поля в фиксированном порядке: зачарования, тег, имя,
// описание, редкость, количество, остальные атрибуты. Тег питомца зависит от
// petInfo, а редкость питомца — от тега.
func (m *Mapper) MapOne(node Node) (item entity.Item, rep entity.AuctionRepresentation, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic: %v", rec)
		}
	}()

	if node.IsEmpty() {
		return entity.Item{}, entity.AuctionRepresentation{}, nil
	}

	extra, _ := node.Map("tag", "ExtraAttributes")

	petInfo, err := parsePetInfo(extra["petInfo"])
	if err != nil {
		return item, rep, fmt.Errorf("parsePetInfo: %w", err)
	}

	item.Enchantments = enchantments(extra)
	item.Tag = canonicalTag(extra, petInfo)
	item.Name = node.String("tag", "display", "Name")
	item.Lore = lore(node)
	item.Description = strings.Join(item.Lore, "\n")

	attributes, err := flattenAttributes(extra, petInfo)
	if err != nil {
		return item, rep, fmt.Errorf("flattenAttributes: %w", err)
	}

	item.Tier = tier(item, petInfo, attributes)
	item.Count = count(node)
	item.ExtraAttributes = extra

	for _, e := range item.Enchantments {
		attributes[enchantKeyPrefix+e.Type] = fmt.Sprint(e.Level)
	}

	rep = entity.AuctionRepresentation{
		Tag:        item.Tag,
		Count:      item.Count,
		Tier:       item.Tier,
		Attributes: attributes,
	}

	return item, rep, nil
}

func enchantments(extra map[string]any) []entity.Enchantment {
	raw, ok := asMap(extra["enchantments"])
	if !ok || len(raw) == 0 {
		return nil
	}

	result := make([]entity.Enchantment, 0, len(raw))

	for name, lvl := range raw {
		level, ok := asInt(lvl)
		if !ok {
			continue
		}

		result = append(result, entity.Enchantment{Type: name, Level: int(level)})
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Type < result[j].Type })

	return result
}

// canonicalTag раскрывает семейства: PET → PET_<type>, RUNE → RUNE_<name>,
// POTION → POTION_<potion>.
func canonicalTag(extra map[string]any, petInfo map[string]any) string {
	id, _ := asString(extra["id"])

	switch id {
	case "PET":
		if t, ok := asString(petInfo["type"]); ok && t != "" {
			return "PET_" + t
		}
	case "RUNE", "UNIQUE_RUNE":
		if runes, ok := asMap(extra["runes"]); ok {
			names := make([]string, 0, len(runes))
			for name := range runes {
				names = append(names, name)
			}

			if len(names) > 0 {
				sort.Strings(names)

				return "RUNE_" + names[0]
			}
		}
	case "POTION":
		if p, ok := asString(extra["potion"]); ok && p != "" {
			return "POTION_" + p
		}
	}

	return id
}

func lore(node Node) []string {
	v, ok := node.Lookup("tag", "display", "Lore")
	if !ok {
		return nil
	}

	list, ok := asList(v)
	if !ok {
		return nil
	}

	lines := make([]string, 0, len(list))

	for _, l := range list {
		if s, ok := asString(l); ok {
			lines = append(lines, s)
		}
	}

	return lines
}

// tier берёт редкость из последней непустой строки описания. Для питомцев
// без неё — из petInfo, затем из плоского атрибута tier.
func tier(item entity.Item, petInfo map[string]any, attributes map[string]string) entity.Tier {
	t := tierFromLore(item.Lore)

	if t == entity.TierUnknown {
		if s, ok := asString(petInfo["tier"]); ok {
			t = entity.ParseTier(s)
		}
	}

	if t == entity.TierUnknown && entity.FamilyTag(item.Tag) == "PET" {
		t = entity.ParseTier(attributes["tier"])
	}

	return t
}

func tierFromLore(lines []string) entity.Tier {
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(StripFormatting(lines[i]))
		if line == "" {
			continue
		}

		if strings.Contains(line, "VERY SPECIAL") {
			return entity.TierVerySpecial
		}

		for _, word := range strings.Fields(line) {
			if t := entity.ParseTier(word); t != entity.TierUnknown {
				return t
			}
		}

		return entity.TierUnknown
	}

	return entity.TierUnknown
}

func count(node Node) int {
	v, ok := node.Lookup("Count")
	if !ok {
		return 1
	}

	n, ok := asInt(v)
	if !ok || n <= 0 {
		return 1
	}

	return int(n)
}

// parsePetInfo: в бинарной форме petInfo — JSON-строка, в JSON-форме
// бывает уже объектом.
func parsePetInfo(v any) (map[string]any, error) {
	switch p := v.(type) {
	case nil:
		return nil, nil
	case string:
		if p == "" {
			return nil, nil
		}

		var info map[string]any
		if err := json.Unmarshal([]byte(p), &info); err != nil {
			return nil, fmt.Errorf("json.Unmarshal: %w", err)
		}

		return info, nil
	default:
		info, ok := asMap(p)
		if !ok {
			return nil, fmt.Errorf("petInfo is %T", v)
		}

		return info, nil
	}
}

// flattenAttributes раскладывает ExtraAttributes в плоскую карту строк.
// Вложенные compound'ы склеиваются через точку, списки сериализуются в
// JSON, поля petInfo поднимаются на верхний уровень.
func flattenAttributes(extra map[string]any, petInfo map[string]any) (map[string]string, error) {
	out := make(map[string]string, len(extra)+len(petInfo))

	for key, v := range extra {
		switch key {
		case "id", "enchantments", "petInfo":
			continue
		}

		if err := flatten(out, key, v); err != nil {
			return nil, err
		}
	}

	for key, v := range petInfo {
		if err := flatten(out, key, v); err != nil {
			return nil, err
		}
	}

	return out, nil
}

func flatten(out map[string]string, prefix string, v any) error {
	if v == nil {
		return nil
	}

	if m, ok := asMap(v); ok {
		for key, child := range m {
			if err := flatten(out, prefix+"."+key, child); err != nil {
				return err
			}
		}

		return nil
	}

	if list, ok := asList(v); ok {
		b, err := json.Marshal(list)
		if err != nil {
			return fmt.Errorf("json.Marshal(%s): %w", prefix, err)
		}

		out[prefix] = string(b)

		return nil
	}

	s, err := scalarString(v)
	if err != nil {
		return fmt.Errorf("%s: %w", prefix, err)
	}

	out[prefix] = s

	return nil
}

// StripFormatting убирает коды форматирования (§a, §l, ...).
func StripFormatting(s string) string {
	return formattingCodes.ReplaceAllString(s, "")
}
