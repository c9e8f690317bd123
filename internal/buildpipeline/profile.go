package buildpipeline

import (
	"bufio"
	"bytes"
	"sort"
	"strconv"
	"strings"
)

// HotLimit — сколько функций из профиля получают CS_HOT.
const HotLimit = 16

// ProfileSample — счётчики вызовов одной инструментированной пробежки.
type ProfileSample map[string]uint64

// ParseProfile читает дамп инструментированного прогона: по строке
// `имя счётчик` на функцию. Повторные имена суммируются, мусорные строки
// молча пропускаются (дамп пишет сгенерированный код, доверять ему нельзя).
func ParseProfile(data []byte) ProfileSample {
	counts := make(ProfileSample)
	sc := bufio.NewScanner(bytes.NewReader(data))
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) != 2 {
			continue
		}
		n, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			continue
		}
		counts[fields[0]] += n
	}
	return counts
}

// SelectHot выбирает не более limit функций с ненулевым счётчиком:
// по убыванию счётчика, при равенстве — лексикографически по имени,
// чтобы одинаковые профили всегда давали одинаковый горячий набор.
func SelectHot(counts ProfileSample, limit int) []string {
	type entry struct {
		name  string
		count uint64
	}
	entries := make([]entry, 0, len(counts))
	for name, count := range counts {
		if count > 0 {
			entries = append(entries, entry{name, count})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].name < entries[j].name
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	hot := make([]string, 0, len(entries))
	for _, e := range entries {
		hot = append(hot, e.name)
	}
	return hot
}
