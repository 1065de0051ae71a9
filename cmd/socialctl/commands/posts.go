package commands

import (
	"context"
	"os"
	"path/filepath"

	"github.com/jrsteele09/go-social-client/feed"
	"github.com/jrsteele09/go-social-client/social"
	"github.com/spf13/cobra"
)

func postsCmd() *cobra.Command {
	var (
		q     social.Query
		feedF bool
		pages int
	)
	cmd := &cobra.Command{
		Use:   "posts",
		Short: "List posts, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if feedF {
				s, err := requireSession(ctx)
				if err != nil {
					return err
				}
				q.FollowedBy = s.ProfileID
			} else {
				app.manager.Probe(ctx)
			}
			if pages < 1 {
				pages = app.cfg.GetPageLimit()
			}

			posts := app.social.Posts(q)
			defer posts.Close()
			page, err := loadPages(ctx, posts, pages)
			if err != nil {
				return err
			}
			if err := app.out.print(page, postsTable(page.Items)); err != nil {
				return err
			}
			pagesFooter(page)
			return nil
		},
	}
	cmd.Flags().StringVarP(&q.Search, "search", "s", "", "match title or owner")
	cmd.Flags().IntVar(&q.OwnerProfile, "owner", 0, "only posts by this profile")
	cmd.Flags().IntVar(&q.LikedBy, "liked-by", 0, "only posts liked by this profile")
	cmd.Flags().BoolVar(&feedF, "feed", false, "only posts by profiles you follow")
	cmd.Flags().IntVar(&pages, "pages", 0, "number of pages to load (default client.page_limit)")
	return cmd
}

func postCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "post",
		Short: "Show, create, edit or delete a post",
	}
	cmd.AddCommand(postShowCmd(), postCreateCmd(), postEditCmd(), postDeleteCmd())
	return cmd
}

func postShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [post-id]",
		Short: "Show one post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := idArg(args[0])
			if err != nil {
				return err
			}
			app.manager.Probe(cmd.Context())
			post, err := app.social.GetPost(cmd.Context(), id)
			if err != nil {
				return err
			}
			return app.out.print(post, postsTable([]social.Post{post}))
		},
	}
}

func postCreateCmd() *cobra.Command {
	var (
		in    social.PostInput
		image string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Publish a post",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := requireSession(cmd.Context()); err != nil {
				return err
			}
			if err := readImage(image, &in.Image, &in.ImageName); err != nil {
				return err
			}
			post, err := app.social.CreatePost(cmd.Context(), in)
			if err != nil {
				return validationError(err)
			}
			return app.out.print(post, postsTable([]social.Post{post}))
		},
	}
	cmd.Flags().StringVarP(&in.Title, "title", "t", "", "post title")
	cmd.Flags().StringVarP(&in.Content, "content", "c", "", "post body")
	cmd.Flags().StringVar(&image, "image", "", "path of an image to attach")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func postEditCmd() *cobra.Command {
	var (
		title, content, image string
	)
	cmd := &cobra.Command{
		Use:   "edit [post-id]",
		Short: "Change the title, body or image of your post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := idArg(args[0])
			if err != nil {
				return err
			}
			if _, err := requireSession(ctx); err != nil {
				return err
			}
			current, err := app.social.GetPost(ctx, id)
			if err != nil {
				return err
			}

			in := social.PostInput{Title: current.Title, Content: current.Content}
			if cmd.Flags().Changed("title") {
				in.Title = title
			}
			if cmd.Flags().Changed("content") {
				in.Content = content
			}
			if err := readImage(image, &in.Image, &in.ImageName); err != nil {
				return err
			}
			post, err := app.social.UpdatePost(ctx, id, in)
			if err != nil {
				return validationError(err)
			}
			return app.out.print(post, postsTable([]social.Post{post}))
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "new title")
	cmd.Flags().StringVarP(&content, "content", "c", "", "new body")
	cmd.Flags().StringVar(&image, "image", "", "path of a replacement image")
	return cmd
}

func postDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [post-id]",
		Short: "Delete your post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := idArg(args[0])
			if err != nil {
				return err
			}
			if _, err := requireSession(cmd.Context()); err != nil {
				return err
			}
			if err := app.social.DeletePost(cmd.Context(), id); err != nil {
				return err
			}
			app.out.message("post %d deleted", id)
			return nil
		},
	}
}

func likeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "like [post-id]",
		Short: "Like a post, or unlike it if you already do",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return togglePost(cmd, args[0], app.social.ToggleLike)
		},
	}
}

func bookmarkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bookmark [post-id]",
		Short: "Bookmark a post, or remove the bookmark",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return togglePost(cmd, args[0], app.social.ToggleBookmark)
		},
	}
}

func togglePost(cmd *cobra.Command, arg string, toggle func(ctx context.Context, posts *feed.List[social.Post], id int) error) error {
	ctx := cmd.Context()
	id, err := idArg(arg)
	if err != nil {
		return err
	}
	if _, err := requireSession(ctx); err != nil {
		return err
	}
	post, err := app.social.GetPost(ctx, id)
	if err != nil {
		return err
	}

	posts := app.social.Posts(social.Query{})
	defer posts.Close()
	posts.Prepend(post)
	if err := toggle(ctx, posts, id); err != nil {
		return err
	}
	post = held(posts, id)
	return app.out.print(post, postsTable([]social.Post{post}))
}

func bookmarksCmd() *cobra.Command {
	var pages int
	cmd := &cobra.Command{
		Use:   "bookmarks",
		Short: "List your bookmarked posts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if _, err := requireSession(ctx); err != nil {
				return err
			}
			if pages < 1 {
				pages = app.cfg.GetPageLimit()
			}
			bookmarks := app.social.Bookmarks(social.Query{})
			defer bookmarks.Close()
			page, err := loadPages(ctx, bookmarks, pages)
			if err != nil {
				return err
			}

			t := table{header: []string{"ID", "POST", "SAVED"}}
			for _, b := range page.Items {
				t.add(itoa(b.ID), itoa(b.Post), stamp(b.CreatedAt))
			}
			if err := app.out.print(page, t); err != nil {
				return err
			}
			pagesFooter(page)
			return nil
		},
	}
	cmd.Flags().IntVar(&pages, "pages", 0, "number of pages to load (default client.page_limit)")
	return cmd
}

func readImage(path string, data *[]byte, name *string) error {
	if path == "" {
		return nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	*data = b
	*name = filepath.Base(path)
	return nil
}

func postsTable(posts []social.Post) table {
	t := table{header: []string{"ID", "OWNER", "TITLE", "LIKES", "COMMENTS", "LIKED", "SAVED", "CREATED"}}
	for _, p := range posts {
		t.add(
			itoa(p.ID), p.Owner, truncate(p.Title, 40),
			itoa(p.LikesCount), itoa(p.CommentsCount),
			optionalID(p.LikeID), optionalID(p.BookmarkID),
			stamp(p.CreatedAt),
		)
	}
	return t
}
