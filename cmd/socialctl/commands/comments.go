package commands

import (
	"github.com/jrsteele09/go-social-client/social"
	"github.com/spf13/cobra"
)

func commentsCmd() *cobra.Command {
	var pages int
	cmd := &cobra.Command{
		Use:   "comments [post-id]",
		Short: "List the comments on a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			postID, err := idArg(args[0])
			if err != nil {
				return err
			}
			app.manager.Probe(ctx)
			if pages < 1 {
				pages = app.cfg.GetPageLimit()
			}

			comments := app.social.Comments(postID)
			defer comments.Close()
			page, err := loadPages(ctx, comments, pages)
			if err != nil {
				return err
			}
			if err := app.out.print(page, commentsTable(page.Items)); err != nil {
				return err
			}
			pagesFooter(page)
			return nil
		},
	}
	cmd.Flags().IntVar(&pages, "pages", 0, "number of pages to load (default client.page_limit)")
	return cmd
}

func commentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comment",
		Short: "Add, edit or delete a comment",
	}
	cmd.AddCommand(commentAddCmd(), commentEditCmd(), commentDeleteCmd())
	return cmd
}

func commentAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add [post-id] [text]",
		Short: "Comment on a post",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			postID, err := idArg(args[0])
			if err != nil {
				return err
			}
			if _, err := requireSession(ctx); err != nil {
				return err
			}
			post, err := app.social.GetPost(ctx, postID)
			if err != nil {
				return err
			}

			posts := app.social.Posts(social.Query{})
			defer posts.Close()
			posts.Prepend(post)
			c, err := app.social.AddComment(ctx, nil, posts, social.CommentInput{Post: postID, Content: args[1]})
			if err != nil {
				return validationError(err)
			}
			app.out.message("post %d now has %d comments", postID, held(posts, postID).CommentsCount)
			return app.out.print(c, commentsTable([]social.Comment{c}))
		},
	}
}

func commentEditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "edit [comment-id] [text]",
		Short: "Change the text of your comment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := idArg(args[0])
			if err != nil {
				return err
			}
			if _, err := requireSession(cmd.Context()); err != nil {
				return err
			}
			c, err := app.social.UpdateComment(cmd.Context(), id, args[1])
			if err != nil {
				return validationError(err)
			}
			return app.out.print(c, commentsTable([]social.Comment{c}))
		},
	}
}

func commentDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [comment-id]",
		Short: "Delete your comment",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := idArg(args[0])
			if err != nil {
				return err
			}
			if _, err := requireSession(cmd.Context()); err != nil {
				return err
			}
			if err := app.social.DeleteComment(cmd.Context(), id); err != nil {
				return err
			}
			app.out.message("comment %d deleted", id)
			return nil
		},
	}
}

func commentsTable(comments []social.Comment) table {
	t := table{header: []string{"ID", "POST", "OWNER", "COMMENT", "CREATED"}}
	for _, c := range comments {
		t.add(itoa(c.ID), itoa(c.Post), c.Owner, truncate(c.Content, 60), stamp(c.CreatedAt))
	}
	return t
}
