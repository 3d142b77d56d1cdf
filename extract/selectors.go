// CLAUDE:SUMMARY Curated main-content selector list, tried in priority order before heuristic scoring.
package extract

// mainSelectors are tried in order; the first match with non-empty text
// wins. Ordering is precision-first: semantic elements, then the id and
// class conventions observed across news sites, blogs and wikis.
var mainSelectors = []string{
	"article",
	`article[role="article"]`,
	"main",
	"#main",
	"#main-content",
	"#mainContent",
	"#primary-content",
	"#article",
	"#article-body",
	"#articleBody",
	"#story-body",
	"#storyBody",
	`[role="main"]`,
	`[role="article"]`,
	".main",
	".main-content",
	".main__content",
	".main-body",
	".primary-content",
	".primary__content",
	".page-content",
	".page__content",
	".content-body",
	".content__body",
	".content__article-body",
	".contentArticle",
	".article-content",
	".article__content",
	".article-body",
	".article-body__content",
	".article__body",
	".articleBody",
	".articleText",
	".articletext",
	".article-main",
	".articlePage",
	".article-page",
	".articleDetail",
	".article-detail",
	".articleSection",
	".o-article__body",
	".c-article",
	".c-article__content",
	".l-article-content",
	".story",
	".story-body",
	".story-body__inner",
	".story__content",
	".story-content",
	".storyContent",
	".storyText",
	".post",
	".post-article",
	".post__content",
	".post-content",
	".post-content__body",
	".post-body",
	".post-body__content",
	".post-text",
	".entry",
	".entry-content",
	".entry__content",
	".entry-content__inner",
	".blog-post",
	".blog__content",
	".body-content",
	".bodyText",
	".body__content",
	".rich-text",
	".rich-text__content",
	".prose",
	".markdown-body",
	".read__content",
	".news-article",
	".news-article__content",
	".news-article-body",
	".mw-parser-output",
}
