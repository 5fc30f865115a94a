package fontconfig

import "sync"

// FamilyCache 缓存每个配置的族名列表，以配置的指针身份为键。
type FamilyCache struct {
	mu      sync.Mutex
	entries map[*Config][]string
}

func NewFamilyCache() *FamilyCache {
	return &FamilyCache{entries: map[*Config][]string{}}
}

// Families 返回 cfg 的族名列表，同一配置只扫描一次。
func (fc *FamilyCache) Families(cfg *Config) []string {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	if list, ok := fc.entries[cfg]; ok {
		return list
	}
	list := cfg.Families()
	fc.entries[cfg] = list
	return list
}

// Forget 丢弃 cfg 的缓存，例如在向其添加字体之后。
func (fc *FamilyCache) Forget(cfg *Config) {
	fc.mu.Lock()
	defer fc.mu.Unlock()
	delete(fc.entries, cfg)
}

// ListFamilies 列出 cfg 中的族名；cfg 为 nil 时使用临时的系统配置。
// extra 非空时先把它作为目录（extraIsDir）或文件加入配置。
func ListFamilies(cfg *Config, extra string, extraIsDir bool) ([]string, error) {
	if cfg == nil {
		cfg = New()
	}
	if extra != "" {
		add := cfg.AddFile
		if extraIsDir {
			add = cfg.AddDir
		}
		if err := add(extra); err != nil {
			return nil, err
		}
	}
	return cfg.Families(), nil
}

// FamilyAt 安全地按下标取族名。
func FamilyAt(families []string, i int) (string, bool) {
	if i < 0 || i >= len(families) {
		return "", false
	}
	return families[i], true
}
