package pack

import (
	"time"

	"pack-vault/internal/domain/asset"
)

// MaxURILength URIの最大長
const MaxURILength = 2048

// Pack パックエンティティ
type Pack struct {
	id                 int64
	uri                string
	openEligibleAt     int64 // UNIX秒。この時刻より後でなければ開封できない
	rewardUnitsPerOpen int64
	contents           []*asset.RewardEntry // 順序は抽選時の走査順
	creator            string
	createdAt          time.Time
}

// NewPack 新しいPackエンティティを作成
func NewPack(
	id int64,
	uri string,
	openEligibleAt int64,
	rewardUnitsPerOpen int64,
	contents []*asset.RewardEntry,
	creator string,
) (*Pack, error) {
	if len(contents) == 0 {
		return nil, ErrNothingToPack
	}
	if len(uri) > MaxURILength {
		return nil, ErrInvalidURI
	}
	if rewardUnitsPerOpen <= 0 {
		return nil, ErrInvalidRewardUnitsPerOpen
	}

	p := &Pack{
		id:                 id,
		uri:                uri,
		openEligibleAt:     openEligibleAt,
		rewardUnitsPerOpen: rewardUnitsPerOpen,
		contents:           contents,
		creator:            creator,
		createdAt:          time.Now(),
	}

	total := p.TotalRewardUnits()
	if total == 0 || total%rewardUnitsPerOpen != 0 {
		return nil, ErrInvalidRewardUnitsPerOpen
	}
	return p, nil
}

// RestorePack 永続化層からPackを復元
func RestorePack(
	id int64,
	uri string,
	openEligibleAt int64,
	rewardUnitsPerOpen int64,
	contents []*asset.RewardEntry,
	creator string,
	createdAt time.Time,
) *Pack {
	return &Pack{
		id:                 id,
		uri:                uri,
		openEligibleAt:     openEligibleAt,
		rewardUnitsPerOpen: rewardUnitsPerOpen,
		contents:           contents,
		creator:            creator,
		createdAt:          createdAt,
	}
}

// ID パックIDを返す
func (p *Pack) ID() int64 {
	return p.id
}

// URI メタデータURIを返す
func (p *Pack) URI() string {
	return p.uri
}

// OpenEligibleAt 開封可能時刻を返す
func (p *Pack) OpenEligibleAt() int64 {
	return p.openEligibleAt
}

// RewardUnitsPerOpen 1シェア開封あたりの報酬単位数を返す
func (p *Pack) RewardUnitsPerOpen() int64 {
	return p.rewardUnitsPerOpen
}

// Creator 作成者を返す
func (p *Pack) Creator() string {
	return p.creator
}

// CreatedAt 作成日時を返す
func (p *Pack) CreatedAt() time.Time {
	return p.createdAt
}

// Contents 在庫を返す（抽選による減算用に実体を返す）
func (p *Pack) Contents() []*asset.RewardEntry {
	return p.contents
}

// ContentsSnapshot 在庫のコピーを返す
func (p *Pack) ContentsSnapshot() []*asset.RewardEntry {
	out := make([]*asset.RewardEntry, len(p.contents))
	for i, e := range p.contents {
		out[i] = e.Clone()
	}
	return out
}

// TotalRewardUnits 残りの報酬単位数の合計を返す
func (p *Pack) TotalRewardUnits() int64 {
	var total int64
	for _, e := range p.contents {
		total += e.RewardUnits()
	}
	return total
}

// ShareSupply 在庫から算出されるシェア数（作成時の発行数）
func (p *Pack) ShareSupply() int64 {
	return p.TotalRewardUnits() / p.rewardUnitsPerOpen
}

// DrawCount shares シェアを開封したときの抽選回数
func (p *Pack) DrawCount(shares int64) int64 {
	return shares * p.rewardUnitsPerOpen
}

// CheckOpenable now（UNIX秒）時点で開封可能か検証
func (p *Pack) CheckOpenable(now int64) error {
	if p.openEligibleAt < now {
		return nil
	}
	return ErrPackNotYetOpenable
}

// IsDepleted 在庫が全て尽きているか
func (p *Pack) IsDepleted() bool {
	return p.TotalRewardUnits() == 0
}

// SetURI URIを設定（メタデータストアの値で上書きする）
func (p *Pack) SetURI(uri string) {
	p.uri = uri
}

// Clone 在庫を含めたディープコピーを返す
func (p *Pack) Clone() *Pack {
	c := *p
	c.contents = p.ContentsSnapshot()
	return &c
}
