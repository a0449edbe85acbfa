package dataset

import "github.com/w-udagawa/vlingual-cards/internal/domain"

// Sample returns the embedded dataset used when loading the real one fails.
// Each call returns a fresh slice.
func Sample() []domain.VocabRecord {
	out := make([]domain.VocabRecord, len(sampleRecords))
	copy(out, sampleRecords)
	return out
}

func sample(term, translation string, d domain.Difficulty, pos, context, url, title, org, presenter string) domain.VocabRecord {
	return domain.VocabRecord{
		Term:         term,
		Translation:  translation,
		Difficulty:   d,
		PartOfSpeech: pos,
		Context:      context,
		VideoURL:     url,
		VideoTitle:   domain.Some(title),
		Organization: domain.Some(org),
		Presenter:    domain.Some(presenter),
	}
}

var sampleRecords = []domain.VocabRecord{
	sample("accomplish", "達成する", domain.DifficultyIntermediate, "動詞",
		"I want to accomplish my goals this year. (今年は目標を達成したい)",
		"https://youtu.be/dQw4w9WgXcQ", "英語学習 #1", "ホロライブ", "がうる・ぐら"),
	sample("resilient", "回復力のある", domain.DifficultyAdvanced, "形容詞",
		"She is resilient in the face of challenges. (彼女は困難に直面しても回復力がある)",
		"https://youtu.be/dQw4w9WgXcQ", "英語学習 #1", "ホロライブ", "がうる・ぐら"),
	sample("embrace", "受け入れる", domain.DifficultyIntermediate, "動詞",
		"We should embrace new opportunities. (新しい機会を受け入れるべきだ)",
		"https://youtu.be/9bZkp7q19f0", "英語学習 #2", "ホロライブ", "がうる・ぐら"),
	sample("profound", "深い、深遠な", domain.DifficultyAdvanced, "形容詞",
		"That book had a profound impact on me. (その本は私に深い影響を与えた)",
		"https://youtu.be/oHg5SJYRHA0", "英語表現レッスン #1", "ホロライブ", "宝鐘マリン"),
	sample("enhance", "向上させる", domain.DifficultyIntermediate, "動詞",
		"This will enhance your learning experience. (これはあなたの学習体験を向上させる)",
		"https://youtu.be/oHg5SJYRHA0", "英語表現レッスン #1", "ホロライブ", "宝鐘マリン"),
	sample("thrive", "繁栄する", domain.DifficultyIntermediate, "動詞",
		"Plants thrive in sunlight. (植物は日光の中で繁栄する)",
		"https://youtu.be/jNQXAC9IVRw", "英会話レッスン #1", "にじさんじ", "月ノ美兎"),
	sample("eloquent", "雄弁な", domain.DifficultyAdvanced, "形容詞",
		"She gave an eloquent speech. (彼女は雄弁なスピーチをした)",
		"https://youtu.be/jNQXAC9IVRw", "英会話レッスン #1", "にじさんじ", "月ノ美兎"),
	sample("venture", "冒険する", domain.DifficultyIntermediate, "動詞",
		"Let's venture into new territory. (新しい領域に冒険しよう)",
		"https://youtu.be/jNQXAC9IVRw", "英会話レッスン #1", "にじさんじ", "月ノ美兎"),
	sample("abundant", "豊富な", domain.DifficultyBeginner, "形容詞",
		"There are abundant resources available. (利用可能な豊富な資源がある)",
		"https://youtu.be/oHg5SJYRHA0", "英語表現レッスン #1", "ホロライブ", "宝鐘マリン"),
	sample("cultivate", "育てる", domain.DifficultyIntermediate, "動詞",
		"We need to cultivate good habits. (良い習慣を育てる必要がある)",
		"https://youtu.be/9bZkp7q19f0", "英語学習 #2", "ホロライブ", "がうる・ぐら"),
}
