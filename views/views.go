// Package views provides the default templ components for the Kuriyama
// Sewing site. Sites that want a different look pass their own ViewFuncs to
// sewpress.New instead.
package views

import (
	"context"
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/kuriyamasewing/sewpress"
	"github.com/kuriyamasewing/sewpress/markup"
)

// Default returns the stock view set wired to the given site config.
func Default(cfg sewpress.SiteConfig) sewpress.ViewFuncs {
	return sewpress.ViewFuncs{
		Home: func(posts []sewpress.Post, categories []sewpress.Category, active, siteURL string) templ.Component {
			return homePage(cfg, posts, categories, active)
		},
		Post: func(post sewpress.Post, related []sewpress.Post, siteURL string) templ.Component {
			return postPage(cfg, post, related)
		},
		AdminLogin:     adminLoginPage,
		AdminDashboard: adminDashboardPage,
		AdminPostForm:  adminPostFormPage,
		AdminImages:    adminImagesPage,
		Unauthorized:   func() templ.Component { return messagePage("権限がありません", "このページを表示する権限がありません。") },
		NotFound:       func() templ.Component { return messagePage("ページが見つかりません", "お探しのページは存在しないか、移動した可能性があります。") },
		ServerError:    func() templ.Component { return messagePage("エラーが発生しました", "時間をおいて再度お試しください。") },
	}
}

type page func(w io.Writer) error

func component(fn page) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return fn(w)
	})
}

func layout(title string, body page) templ.Component {
	return component(func(w io.Writer) error {
		fmt.Fprintf(w, `<!DOCTYPE html><html lang="ja"><head><meta charset="utf-8">`+
			`<meta name="viewport" content="width=device-width, initial-scale=1">`+
			`<title>%s</title><link rel="stylesheet" href="/public/site.css"></head><body>`,
			html.EscapeString(title))
		if err := body(w); err != nil {
			return err
		}
		_, err := io.WriteString(w, `</body></html>`)
		return err
	})
}

func homePage(cfg sewpress.SiteConfig, posts []sewpress.Post, categories []sewpress.Category, active string) templ.Component {
	return layout(cfg.Name, func(w io.Writer) error {
		fmt.Fprintf(w, `<header class="site-header"><h1>%s</h1><p>%s</p></header>`,
			html.EscapeString(cfg.Name), html.EscapeString(cfg.Description))

		io.WriteString(w, `<nav class="category-nav"><a href="/">すべて</a>`)
		for _, c := range categories {
			cls := ""
			if c.Name == active {
				cls = ` class="active"`
			}
			fmt.Fprintf(w, `<a href="/?category=%s"%s style="border-color:%s">%s</a>`,
				templ.EscapeString(c.Name), cls, html.EscapeString(c.Color), html.EscapeString(c.Name))
		}
		io.WriteString(w, `</nav><main class="post-grid">`)

		for _, p := range posts {
			fmt.Fprintf(w, `<article class="post-card"><a href="%s/">`, html.EscapeString(p.Link()))
			if p.FeaturedImage != "" {
				fmt.Fprintf(w, `<img src="%s" alt="%s" loading="lazy">`,
					html.EscapeString(p.FeaturedImage), html.EscapeString(p.Title))
			}
			fmt.Fprintf(w, `<h2>%s</h2><p>%s</p><time>%s</time></a></article>`,
				html.EscapeString(p.Title), html.EscapeString(p.Excerpt),
				p.DisplayDate().Format("2006.01.02"))
		}
		io.WriteString(w, `</main>`)

		fmt.Fprintf(w, `<script type="application/ld+json">%s</script>`, sewpress.WebsiteJsonLD(cfg))
		return nil
	})
}

func postPage(cfg sewpress.SiteConfig, post sewpress.Post, related []sewpress.Post) templ.Component {
	return layout(post.MetaTitleOrTitle()+" | "+cfg.Name, func(w io.Writer) error {
		fmt.Fprintf(w, `<article class="blog-article"><header><h1>%s</h1><time>%s</time>`,
			html.EscapeString(post.Title), post.DisplayDate().Format("2006.01.02"))
		if post.Category != "" {
			fmt.Fprintf(w, `<span class="category-label">%s</span>`, html.EscapeString(post.Category))
		}
		io.WriteString(w, `</header>`)
		if post.FeaturedImage != "" {
			fmt.Fprintf(w, `<img class="featured" src="%s" alt="%s">`,
				html.EscapeString(post.FeaturedImage), html.EscapeString(post.Title))
		}

		if err := markup.Component(post.Content).Render(context.Background(), w); err != nil {
			return err
		}

		if len(post.Tags) > 0 {
			io.WriteString(w, `<footer class="tag-list">`)
			for _, t := range post.Tags {
				fmt.Fprintf(w, `<span class="tag">#%s</span>`, html.EscapeString(t))
			}
			io.WriteString(w, `</footer>`)
		}
		io.WriteString(w, `</article>`)

		if len(related) > 0 {
			io.WriteString(w, `<aside class="related"><h2>関連記事</h2><ul>`)
			for _, r := range related {
				fmt.Fprintf(w, `<li><a href="%s/">%s</a></li>`,
					html.EscapeString(r.Link()), html.EscapeString(r.Title))
			}
			io.WriteString(w, `</ul></aside>`)
		}

		fmt.Fprintf(w, `<script type="application/ld+json">%s</script>`, sewpress.BlogPostingJsonLD(post, cfg))
		return nil
	})
}

func adminLoginPage(showError bool, csrfToken string) templ.Component {
	return layout("ログイン", func(w io.Writer) error {
		io.WriteString(w, `<main class="admin-login">`)
		if showError {
			io.WriteString(w, `<p class="error">メールアドレスまたはパスワードが正しくありません。</p>`)
		}
		io.WriteString(w, `<form method="post" action="/admin/login/">`+
			csrfField(csrfToken)+
			`<label>メールアドレス<input type="email" name="email" required></label>`+
			`<label>パスワード<input type="password" name="password" required></label>`+
			`<button type="submit">ログイン</button></form></main>`)
		return nil
	})
}

func adminDashboardPage(posts []sewpress.Post, message, csrfToken string) templ.Component {
	return layout("記事管理", func(w io.Writer) error {
		io.WriteString(w, `<main class="admin-dashboard"><h1>記事管理</h1>`)
		if message != "" {
			fmt.Fprintf(w, `<p class="notice">%s</p>`, html.EscapeString(message))
		}
		io.WriteString(w, `<p><a href="/admin/posts/new/">新規作成</a> | <a href="/admin/images/">画像</a></p>`)
		io.WriteString(w, `<table><thead><tr><th>タイトル</th><th>状態</th><th>更新日</th><th></th></tr></thead><tbody>`)
		for _, p := range posts {
			fmt.Fprintf(w, `<tr><td><a href="/admin/posts/%s/">%s</a></td><td>%s</td><td>%s</td>`,
				templ.EscapeString(p.ID), html.EscapeString(p.Title),
				statusLabel(p.Status), p.UpdatedAt.Format("2006.01.02 15:04"))
			io.WriteString(w, `<td><form method="post" action="/admin/posts/`+
				templ.EscapeString(p.ID)+`/status/">`+
				csrfField(csrfToken)+statusButtons(p.Status)+`</form></td></tr>`)
		}
		io.WriteString(w, `</tbody></table></main>`)
		return nil
	})
}

func statusLabel(s sewpress.Status) string {
	switch s {
	case sewpress.StatusPublished:
		return "公開中"
	case sewpress.StatusArchived:
		return "アーカイブ"
	default:
		return "下書き"
	}
}

func statusButtons(current sewpress.Status) string {
	var b strings.Builder
	for _, s := range []sewpress.Status{sewpress.StatusDraft, sewpress.StatusPublished, sewpress.StatusArchived} {
		if s == current {
			continue
		}
		fmt.Fprintf(&b, `<button name="status" value="%s">%sにする</button>`, s, statusLabel(s))
	}
	return b.String()
}

func adminPostFormPage(post sewpress.Post, categories []sewpress.Category, errMsg, csrfToken string) templ.Component {
	action := "/admin/posts/"
	if post.ID != "" {
		action = "/admin/posts/" + post.ID + "/"
	}
	return layout("記事編集", func(w io.Writer) error {
		io.WriteString(w, `<main class="admin-form">`)
		if errMsg != "" {
			fmt.Fprintf(w, `<p class="error">%s</p>`, html.EscapeString(errMsg))
		}
		io.WriteString(w, `<form method="post" action="`+action+`">`+csrfField(csrfToken))
		fmt.Fprintf(w, `<label>タイトル<input name="title" value="%s" required></label>`, html.EscapeString(post.Title))
		fmt.Fprintf(w, `<label>スラッグ<input name="slug" value="%s"></label>`, html.EscapeString(post.Slug))
		fmt.Fprintf(w, `<label>抜粋<textarea name="excerpt">%s</textarea></label>`, html.EscapeString(post.Excerpt))
		fmt.Fprintf(w, `<label>本文<textarea name="content" rows="24">%s</textarea></label>`, html.EscapeString(post.Content))

		io.WriteString(w, `<label>カテゴリ<select name="category"><option value=""></option>`)
		for _, c := range categories {
			sel := ""
			if c.Name == post.Category {
				sel = " selected"
			}
			fmt.Fprintf(w, `<option value="%s"%s>%s</option>`,
				html.EscapeString(c.Name), sel, html.EscapeString(c.Name))
		}
		io.WriteString(w, `</select></label>`)

		fmt.Fprintf(w, `<label>タグ<input name="tags" value="%s"></label>`, html.EscapeString(sewpress.JoinTags(post.Tags)))
		fmt.Fprintf(w, `<label>アイキャッチ画像URL<input name="featured_image" value="%s"></label>`, html.EscapeString(post.FeaturedImage))
		fmt.Fprintf(w, `<label>SEOタイトル<input name="meta_title" value="%s"></label>`, html.EscapeString(post.MetaTitle))
		fmt.Fprintf(w, `<label>SEO説明文<textarea name="meta_description">%s</textarea></label>`, html.EscapeString(post.MetaDescription))

		io.WriteString(w, `<button name="action" value="">保存</button>`)
		io.WriteString(w, `<button name="action" value="published">公開する</button>`)
		io.WriteString(w, `</form></main>`)
		return nil
	})
}

func adminImagesPage(images []sewpress.Image, csrfToken string) templ.Component {
	return layout("画像管理", func(w io.Writer) error {
		io.WriteString(w, `<main class="admin-images"><h1>画像管理</h1><ul class="image-grid">`)
		for _, img := range images {
			thumb := img.ThumbURL
			if thumb == "" {
				thumb = img.URL
			}
			fmt.Fprintf(w, `<li><img src="%s" alt="%s" loading="lazy"><code>%s</code>`+
				`<span>%d×%d</span>`+
				`<button class="image-delete" data-path="%s">削除</button></li>`,
				html.EscapeString(thumb), html.EscapeString(img.OriginalName),
				html.EscapeString(img.URL), img.Width, img.Height,
				html.EscapeString(img.Path))
		}
		io.WriteString(w, `</ul>`)
		// The delete route only accepts DELETE, which plain forms cannot
		// send; the buttons go through fetch with the CSRF header instead.
		fmt.Fprintf(w, `<script>const csrf=%q;`+
			`document.querySelectorAll(".image-delete").forEach(b=>b.addEventListener("click",async()=>{`+
			`if(!confirm("この画像を削除しますか？"))return;`+
			`await fetch("/admin/images/"+b.dataset.path,{method:"DELETE",headers:{"X-CSRF-Token":csrf}});`+
			`location.reload();}));</script>`, csrfToken)
		io.WriteString(w, `</main>`)
		return nil
	})
}

func messagePage(title, body string) templ.Component {
	return layout(title, func(w io.Writer) error {
		fmt.Fprintf(w, `<main class="message-page"><h1>%s</h1><p>%s</p><a href="/">トップへ戻る</a></main>`,
			html.EscapeString(title), html.EscapeString(body))
		return nil
	})
}

func csrfField(token string) string {
	return `<input type="hidden" name="_csrf" value="` + html.EscapeString(token) + `">`
}
