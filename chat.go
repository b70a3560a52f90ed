package sewpress

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	openai "github.com/sashabaranov/go-openai"
)

// ChatService answers a visitor's quoting question. Implementations are
// expected to be safe for concurrent use.
type ChatService interface {
	Reply(ctx context.Context, message string) (string, error)
}

// estimateSystemPrompt drives the structured-estimate mode: the contact form
// submits a templated message and the assistant prices it from the rate card.
const estimateSystemPrompt = `あなたは栗山縫製株式会社の見積もりアシスタントです。

【料金表】
■修理（緊急対応）
・8:00～17:00：2,500円×作業時間
・17:00～21:00：3,500円×作業時間
・21:00以降：4,000円×作業時間

■サンプル（緊急対応料金・税別）
・コート：65,000円～
・ジャケット：50,000円～
・ブラウス：25,000円～
・ボトム：25,000円～
・ワンピース：35,000円～
・カットソー：15,000円～
・Tシャツ：10,000円～

■量産
・サンプル・仕様書からお見積もりいたします

以下の形式で見積もりを提示してください：

◼︎ お見積もり結果

▶︎ 製品：[製品名]
▶︎ 作業内容：[作業内容]
▶︎ 希望納期：[納期]

▶︎ 【概算料金】
[該当する料金を料金表から提示]

▶︎ 【注意事項】
・上記は緊急対応時の料金です
・金額は税別表示です
・詳細仕様により変動する場合があります
・正式見積もりは担当者よりご連絡いたします

担当者が詳細な打ち合わせをさせていただきます！`

// freeformSystemPrompt drives ordinary chat: ask the visitor what they need,
// one question per marker line.
const freeformSystemPrompt = `あなたは栗山縫製株式会社の見積もりアシスタントです。

以下の形式で必ず回答してください：

◼︎ こんにちは！ご連絡ありがとうございます。

▶︎ [お客様のご要望を1行で確認]

[お客様に必要な情報を聞くための質問を▶︎で箇条書き（各項目1行）]
▶︎ どんな服ですか？（例：Tシャツ、ドレス、ジャケット）
▶︎ サイズは？（例：S、M、L）
▶︎ 生地の希望は？（例：コットン、ウール）
▶︎ デザインのイメージは？（例：色、柄）
▶︎ いつまでに必要ですか？

詳細を教えていただければ、担当者がご連絡いたします！

【重要ポイント】
- 各行は必ず改行で区切る
- ◼︎は挨拶用、▶︎は質問用マーカー
- 短く簡潔な文章
- 親しみやすい口調
- 1着から対応可能
- 最短3日で完成可能
- AI検品で高品質保証`

// QuoteAssistant is the OpenAI-backed ChatService used by the public
// quoting widget.
type QuoteAssistant struct {
	client *openai.Client
}

// NewQuoteAssistant creates a ChatService backed by the OpenAI API.
func NewQuoteAssistant(apiKey string) *QuoteAssistant {
	return &QuoteAssistant{client: openai.NewClient(apiKey)}
}

func (q *QuoteAssistant) Reply(ctx context.Context, message string) (string, error) {
	system := freeformSystemPrompt
	if isAutoEstimate(message) {
		system = estimateSystemPrompt
	}
	resp, err := q.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: openai.GPT4oMini,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: message},
		},
		MaxTokens:   500,
		Temperature: 0.7,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}

// isAutoEstimate detects the templated message the estimate form submits.
func isAutoEstimate(message string) bool {
	return strings.Contains(message, "製品カテゴリ：") &&
		strings.Contains(message, "作業内容：") &&
		strings.Contains(message, "希望納期：")
}

type chatRequest struct {
	Message string `json:"message"`
}

func (a *App) handleChat(c echo.Context) error {
	if a.chat == nil {
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "チャット機能は現在ご利用いただけません。"})
	}

	var req chatRequest
	if err := c.Bind(&req); err != nil || req.Message == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "メッセージが空です。"})
	}

	reply, err := a.chat.Reply(c.Request().Context(), req.Message)
	if err != nil {
		c.Logger().Errorf("chat completion: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "AI応答の生成中にエラーが発生しました。 詳細: " + err.Error()})
	}

	return c.JSON(http.StatusOK, echo.Map{"message": reply})
}
