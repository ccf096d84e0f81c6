package render

import "context"

type Renderer interface {
	RenderCatalog(ctx context.Context, page CatalogPage) ([]byte, error)
	RenderDetail(ctx context.Context, page DetailPage) ([]byte, error)
	RenderSimilar(ctx context.Context, page SimilarPage) ([]byte, error)
	RenderBlogList(ctx context.Context, page BlogListPage) ([]byte, error)
	RenderBlogPost(ctx context.Context, page BlogPostPage) ([]byte, error)
	RenderNotFound(ctx context.Context, page NotFoundPage) ([]byte, error)
}
